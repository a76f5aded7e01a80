// Package sender отправляет письма workshops-api: OTP для сброса пароля и
// уведомления о заявках. Письма уходят через SMTP или складываются в Outbox.
package sender

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/smtp"
	"github.com/magabrotheeeer/workshop-portal/internal/metrics"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

// Mail — одно исходящее письмо.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer доставляет письмо.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// SMTPMailer доставляет письма через SMTP-транспорт.
type SMTPMailer struct {
	transport smtp.Connector
	log       *slog.Logger
}

// NewSMTPMailer создаёт SMTPMailer.
func NewSMTPMailer(transport smtp.Connector, log *slog.Logger) *SMTPMailer {
	return &SMTPMailer{transport: transport, log: sl.OrDiscard(log)}
}

// Send отправляет письмо одним SMTP-сеансом.
func (s *SMTPMailer) Send(ctx context.Context, m Mail) error {
	const op = "sender.SMTPMailer.Send"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log := s.log.With(sl.Op(op), slog.String("to", m.To))

	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + m.To,
		"Subject: " + m.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		m.Body,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		log.Error("failed to connect to SMTP server", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Rcpt(m.To); err != nil {
		log.Error("failed to set RCPT TO", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	wc, err := client.Data()
	if err != nil {
		log.Error("failed to get Data writer", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		log.Error("failed to write email body", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = wc.Close(); err != nil {
		log.Error("failed to close Data writer", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Quit(); err != nil {
		log.Error("failed to quit SMTP client", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("email sent successfully")
	return nil
}

// Service формирует письма платформы и отдаёт их Mailer.
// Ошибка доставки не прерывает операцию, которая письмо породила.
type Service struct {
	mailer  Mailer
	log     *slog.Logger
	metrics *metrics.Server
}

// NewService создаёт Service. m может быть nil.
func NewService(mailer Mailer, log *slog.Logger, m *metrics.Server) *Service {
	return &Service{mailer: mailer, log: sl.OrDiscard(log), metrics: m}
}

// SendOTP отправляет код сброса пароля.
func (s *Service) SendOTP(ctx context.Context, email, otp string, ttlMinutes int) {
	s.send(ctx, Mail{
		To:      email,
		Subject: "Password Reset OTP",
		Body: fmt.Sprintf("Your OTP for password reset is: %s\n\nThis OTP will expire in %d minutes.\n\n"+
			"If you did not request a password reset, please ignore this email.", otp, ttlMinutes),
	})
}

// SendRegistrationReceived подтверждает получение заявки.
func (s *Service) SendRegistrationReceived(ctx context.Context, reg models.Registration, w models.Workshop) {
	s.send(ctx, Mail{
		To:      reg.Email,
		Subject: "Registration Received: " + w.Title,
		Body: fmt.Sprintf("Dear %s,\n\nThank you for registering for %s.\n\n"+
			"Workshop date: %s\nLocation: %s\n\nWe will contact you once your registration is reviewed.",
			reg.FullName, w.Title, w.StartDate.Format("January 02, 2006"), w.Location),
	})
}

// SendRegistrationApproved сообщает об одобрении заявки.
func (s *Service) SendRegistrationApproved(ctx context.Context, reg models.Registration, w models.Workshop) {
	s.send(ctx, Mail{
		To:      reg.Email,
		Subject: "Registration Approved: " + w.Title,
		Body: fmt.Sprintf("Dear %s,\n\nYour registration for %s has been approved.\n\n"+
			"Workshop date: %s\nLocation: %s\n\nSee you there!",
			reg.FullName, w.Title, w.StartDate.Format("January 02, 2006"), w.Location),
	})
}

func (s *Service) send(ctx context.Context, m Mail) {
	if s == nil || s.mailer == nil {
		return
	}
	result := "sent"
	if err := s.mailer.Send(ctx, m); err != nil {
		result = "failed"
		s.log.Warn("failed to send email", slog.String("to", m.To), slog.String("subject", m.Subject), sl.Err(err))
	}
	if s.metrics != nil {
		s.metrics.MailsSent.WithLabelValues(result).Inc()
	}
}
