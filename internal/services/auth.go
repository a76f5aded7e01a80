package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/apierr"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/password"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/storage"
)

// Тексты ответов, которые клиент показывает пользователю.
const (
	MsgOTPSentUnknown  = "If your email is registered, you will receive a password reset OTP"
	MsgOTPSent         = "Password reset OTP has been sent to your email"
	MsgPasswordReset   = "Password has been reset successfully"
	MsgPasswordUpdated = "Password updated successfully"
)

// Тексты ошибок проверки токена.
const (
	DetailNotAuthenticated = "Not authenticated"
	DetailBadCredentials   = "Could not validate credentials"
	DetailInactiveUser     = "Inactive user"
	DetailNotEnoughRights  = "Not enough permissions"
)

const otpDigits = 6

// otpEntry — сохранённый код сброса пароля.
type otpEntry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService реализует регистрацию, вход и управление паролем.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	hasher   *password.Hasher
	otps     Cache
	notifier Notifier
	otpTTL   time.Duration
	log      *slog.Logger

	now     func() time.Time
	newCode func() (string, error)
}

// NewAuthService создаёт AuthService.
func NewAuthService(
	users UserRepository,
	jwtMaker jwt.Maker,
	hasher *password.Hasher,
	otps Cache,
	notifier Notifier,
	otpTTL time.Duration,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		hasher:   hasher,
		otps:     otps,
		notifier: notifier,
		otpTTL:   otpTTL,
		log:      sl.OrDiscard(log),
		now:      time.Now,
		newCode:  generateOTP,
	}
}

// Register создаёт пользователя с ролью user.
func (s *AuthService) Register(ctx context.Context, in models.RegisterRequest) (*models.UserProfile, error) {
	const op = "services.AuthService.Register"

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	grade := in.Grade
	created, err := s.users.CreateUser(ctx, storage.User{
		UserProfile: models.UserProfile{
			Email:       strings.TrimSpace(in.Email),
			FullName:    in.FullName,
			Role:        models.RoleUser,
			IsActive:    true,
			Grade:       &grade,
			School:      in.School,
			Phone:       in.Phone,
			ParentName:  in.ParentName,
			ParentPhone: in.ParentPhone,
		},
		PasswordHash: hashed,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, apierr.BadRequest("Email already registered")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.String("user_id", created.ID))
	return created.Profile(), nil
}

// Login проверяет пароль и выпускает токен.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (string, error) {
	const op = "services.AuthService.Login"

	user, err := s.users.UserByEmail(ctx, creds.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", apierr.Unauthorized("Incorrect email or password")
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.hasher.Compare(user.PasswordHash, creds.Password); err != nil {
		return "", apierr.Unauthorized("Incorrect email or password")
	}

	token, err := s.jwtMaker.GenerateToken(user.Email, user.Role.String())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Authenticate возвращает активного пользователя, которому выдан token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*storage.User, error) {
	const op = "services.AuthService.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, apierr.Unauthorized(DetailBadCredentials)
	}
	user, err := s.users.UserByEmail(ctx, claims.Email())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apierr.Unauthorized(DetailBadCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, apierr.BadRequest(DetailInactiveUser)
	}
	return user, nil
}

// ForgotPassword создаёт одноразовый код и отправляет его письмом.
// Для неизвестного email ответ отличается только текстом сообщения.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	const op = "services.AuthService.ForgotPassword"

	user, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return MsgOTPSentUnknown, nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	code, err := s.newCode()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	entry := otpEntry{Code: code, ExpiresAt: s.now().Add(s.otpTTL)}
	// Запись живёт дольше кода, чтобы отличить истёкший код от отсутствующего.
	if err := s.otps.Set(ctx, otpKey(user.Email), entry, 2*s.otpTTL); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.SendOTP(ctx, user.Email, code, int(s.otpTTL/time.Minute))
	return MsgOTPSent, nil
}

// ResetPassword меняет пароль по одноразовому коду.
func (s *AuthService) ResetPassword(ctx context.Context, in models.PasswordResetConfirm) (string, error) {
	const op = "services.AuthService.ResetPassword"
	key := otpKey(in.Email)

	var entry otpEntry
	found, err := s.otps.Get(ctx, key, &entry)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return "", apierr.BadRequest("Invalid or expired OTP. Please request a new one.")
	}
	if entry.ExpiresAt.Before(s.now()) {
		s.invalidate(ctx, key)
		return "", apierr.BadRequest("OTP has expired. Please request a new one.")
	}
	if entry.Code != in.OTP {
		return "", apierr.BadRequest("Invalid OTP")
	}

	user, err := s.users.UserByEmail(ctx, in.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", apierr.BadRequest("Password update failed")
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.setPassword(ctx, user.ID, in.NewPassword); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, key)
	return MsgPasswordReset, nil
}

// ChangePassword меняет пароль пользователя после проверки старого.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, in models.PasswordChange) (string, error) {
	const op = "services.AuthService.ChangePassword"

	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return "", notFound(op, err, "User not found")
	}
	if err := s.hasher.Compare(user.PasswordHash, in.OldPassword); err != nil {
		return "", apierr.BadRequest("Incorrect old password")
	}
	if err := s.setPassword(ctx, user.ID, in.NewPassword); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return MsgPasswordUpdated, nil
}

// UpdateProfile изменяет собственный профиль пользователя.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in models.ProfileUpdate) (*models.UserProfile, error) {
	const op = "services.AuthService.UpdateProfile"
	if in.IsEmpty() {
		return nil, noFields()
	}
	updated, err := s.users.UpdateUser(ctx, userID, func(u *storage.User) {
		applyProfile(&u.UserProfile, in)
	})
	if err != nil {
		return nil, notFound(op, err, "User not found")
	}
	return updated.Profile(), nil
}

// EnsureAdmin создаёт администратора, если пользователя с таким email ещё нет.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, rawPassword string) error {
	const op = "services.AuthService.EnsureAdmin"

	if _, err := s.users.UserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	created, err := s.users.CreateUser(ctx, storage.User{
		UserProfile: models.UserProfile{
			Email:    email,
			FullName: "Administrator",
			Role:     models.RoleAdmin,
			IsActive: true,
		},
		PasswordHash: hashed,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin account created", slog.String("user_id", created.ID))
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, userID, raw string) error {
	hashed, err := s.hasher.Hash(raw)
	if err != nil {
		return err
	}
	_, err = s.users.UpdateUser(ctx, userID, func(u *storage.User) {
		u.PasswordHash = hashed
	})
	return err
}

func (s *AuthService) invalidate(ctx context.Context, key string) {
	if err := s.otps.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to invalidate otp", slog.String("key", key), sl.Err(err))
	}
}

func applyProfile(p *models.UserProfile, in models.ProfileUpdate) {
	if in.FullName != nil {
		p.FullName = *in.FullName
	}
	if in.Grade != nil {
		g := *in.Grade
		p.Grade = &g
	}
	if in.School != nil {
		p.School = *in.School
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.ParentName != nil {
		p.ParentName = *in.ParentName
	}
	if in.ParentPhone != nil {
		p.ParentPhone = *in.ParentPhone
	}
}

func otpKey(email string) string {
	return "otp:" + strings.ToLower(email)
}

func generateOTP() (string, error) {
	var b strings.Builder
	for i := 0; i < otpDigits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
