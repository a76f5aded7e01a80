// Package authclient выполняет операции входа, регистрации и смены пароля,
// переводя ответы API в изменения сессии и уведомления. Вместо прямой
// навигации операции возвращают Outcome с адресом перехода.
package authclient

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/validate"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/notify"
	"github.com/magabrotheeeer/workshop-portal/internal/restclient"
	"github.com/magabrotheeeer/workshop-portal/internal/session"
	"github.com/magabrotheeeer/workshop-portal/internal/transport"
)

// Адреса переходов.
const (
	HomePath      = "/"
	LoginPath     = "/login"
	AdminLanding  = "/admin"
	UserLanding   = "/dashboard"
	ResetPassPath = "/reset-password"
)

// Тексты уведомлений.
const (
	MsgLoginSuccess      = "Login successful!"
	MsgLoginFailed       = "Login failed. Please check your credentials."
	MsgRegisterSuccess   = "Registration successful! Please log in."
	MsgRegisterFailed    = "Registration failed. Please try again."
	MsgLoggedOut         = "You have been logged out"
	MsgResetRequested    = "If your email is registered, you will receive a password reset OTP"
	MsgResetRequestFail  = "Failed to send password reset request. Please try again."
	MsgResetSuccess      = "Password has been reset successfully!"
	MsgResetFailed       = "Failed to reset password. Please try again."
	MsgPasswordChanged   = "Password updated successfully!"
	MsgPasswordChangeErr = "Failed to update password. Please try again."
	MsgProfileUpdated    = "Profile updated successfully!"
	MsgProfileFailed     = "Failed to update profile. Please try again."
	MsgNetworkError      = "Network error. Please try again."
)

// API — вызовы REST API, нужные клиенту.
type API interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)
	Me(ctx context.Context, token string) (*models.UserProfile, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error)
	ForgotPassword(ctx context.Context, req models.PasswordResetRequest) (*models.Message, error)
	ResetPassword(ctx context.Context, req models.PasswordResetConfirm) (*models.Message, error)
	ChangePassword(ctx context.Context, req models.PasswordChange) (*models.Message, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error)
}

// Session — операции хранилища сессии, которые использует клиент.
type Session interface {
	Restore(ctx context.Context, fetcher session.ProfileFetcher) error
	SetSession(ctx context.Context, token string, user *models.UserProfile) error
	ClearSession(ctx context.Context) error
	UpdateUserAt(gen uint64, user *models.UserProfile) error
	Snapshot() session.Snapshot
}

// Outcome — результат операции для слоя интерфейса.
type Outcome struct {
	OK bool
	// Navigate — куда перейти после операции, пустая строка означает остаться.
	Navigate string
	// FieldErrors — ошибки полей формы (поле -> сообщение).
	FieldErrors map[string]string
}

// Client — клиент операций идентификации.
type Client struct {
	log      *slog.Logger
	api      API
	session  Session
	notifier notify.Publisher
	validate *validate.Validator
}

// New создаёт клиент.
func New(log *slog.Logger, api API, sess Session, notifier notify.Publisher) *Client {
	return &Client{
		log:      sl.OrDiscard(log),
		api:      api,
		session:  sess,
		notifier: notifier,
		validate: validate.New(),
	}
}

// Restore восстанавливает сессию из сохранённого токена. 401 на проверку
// токена обрабатывается здесь и не запускает общий сброс сессии.
func (c *Client) Restore(ctx context.Context) error {
	return c.session.Restore(transport.SkipUnauthorized(ctx), c.api)
}

// Login входит по email и паролю. next — путь, который запросил пользователь
// до перенаправления на вход; пустой next означает стартовую страницу роли.
func (c *Client) Login(ctx context.Context, email, password, next string) Outcome {
	const op = "authclient.Login"
	log := c.log.With(slog.String("op", op))

	creds := models.Credentials{Email: strings.TrimSpace(email), Password: password}
	if fields := c.validate.Struct(creds); fields != nil {
		return Outcome{FieldErrors: fields}
	}

	ctx = transport.SkipUnauthorized(ctx)

	token, err := c.api.Login(ctx, creds)
	if err != nil {
		log.Info("login rejected", sl.Err(err))
		return c.loginFailure(err)
	}

	profile, err := c.api.Me(ctx, token)
	if err != nil {
		log.Warn("failed to load profile after login", sl.Err(err))
		return c.loginFailure(err)
	}

	if err := c.session.SetSession(ctx, token, profile); err != nil {
		log.Error("failed to store session", sl.Err(err))
		c.notifier.Error(MsgLoginFailed)
		return Outcome{}
	}

	c.notifier.Success(MsgLoginSuccess)
	return Outcome{OK: true, Navigate: landing(profile, next)}
}

// Landing возвращает стартовую страницу для профиля.
func Landing(profile *models.UserProfile) string {
	if profile.IsAdmin() {
		return AdminLanding
	}
	return UserLanding
}

func landing(profile *models.UserProfile, next string) string {
	if isReturnPath(next) {
		return next
	}
	return Landing(profile)
}

// isReturnPath пропускает только локальные пути приложения.
func isReturnPath(p string) bool {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return false
	}
	path := p
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return path != LoginPath
}

// Register регистрирует пользователя. Вход после регистрации не выполняется.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) Outcome {
	const op = "authclient.Register"

	req.Email = strings.TrimSpace(req.Email)
	if fields := c.validate.Struct(req); fields != nil {
		return Outcome{FieldErrors: fields}
	}

	if _, err := c.api.Register(ctx, req); err != nil {
		c.log.Info("registration rejected", slog.String("op", op), sl.Err(err))
		return c.failure(err, MsgRegisterFailed)
	}

	c.notifier.Success(MsgRegisterSuccess)
	return Outcome{OK: true, Navigate: LoginPath}
}

// Logout сбрасывает сессию локально, запрос к API не выполняется.
func (c *Client) Logout(ctx context.Context) Outcome {
	const op = "authclient.Logout"
	if err := c.session.ClearSession(ctx); err != nil {
		// сессия в памяти уже очищена
		c.log.Warn("failed to clear persisted token", slog.String("op", op), sl.Err(err))
	}
	c.notifier.Success(MsgLoggedOut)
	return Outcome{OK: true, Navigate: HomePath}
}

// RequestPasswordReset запрашивает одноразовый код для сброса пароля.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) Outcome {
	const op = "authclient.RequestPasswordReset"

	req := models.PasswordResetRequest{Email: strings.TrimSpace(email)}
	if fields := c.validate.Struct(req); fields != nil {
		return Outcome{FieldErrors: fields}
	}

	if _, err := c.api.ForgotPassword(ctx, req); err != nil {
		c.log.Info("password reset request failed", slog.String("op", op), sl.Err(err))
		return c.failure(err, MsgResetRequestFail)
	}

	c.notifier.Success(MsgResetRequested)
	return Outcome{OK: true, Navigate: ResetPassPath}
}

// ConfirmPasswordReset устанавливает новый пароль по коду из письма.
func (c *Client) ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) Outcome {
	const op = "authclient.ConfirmPasswordReset"

	req := models.PasswordResetConfirm{
		Email:       strings.TrimSpace(email),
		OTP:         strings.TrimSpace(otp),
		NewPassword: newPassword,
	}
	if fields := c.validate.Struct(req); fields != nil {
		return Outcome{FieldErrors: fields}
	}

	if _, err := c.api.ResetPassword(ctx, req); err != nil {
		c.log.Info("password reset failed", slog.String("op", op), sl.Err(err))
		return c.failure(err, MsgResetFailed)
	}

	c.notifier.Success(MsgResetSuccess)
	return Outcome{OK: true, Navigate: LoginPath}
}

// ChangePassword меняет пароль текущего пользователя.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) Outcome {
	const op = "authclient.ChangePassword"

	req := models.PasswordChange{OldPassword: oldPassword, NewPassword: newPassword}
	if fields := c.validate.Struct(req); fields != nil {
		return Outcome{FieldErrors: fields}
	}

	if _, err := c.api.ChangePassword(ctx, req); err != nil {
		c.log.Info("password change failed", slog.String("op", op), sl.Err(err))
		return c.failure(err, MsgPasswordChangeErr)
	}

	c.notifier.Success(MsgPasswordChanged)
	return Outcome{OK: true}
}

// RefreshProfile перечитывает профиль и целиком заменяет его в сессии.
// Если сессия изменилась, пока шёл запрос, ответ отбрасывается.
func (c *Client) RefreshProfile(ctx context.Context) (*models.UserProfile, error) {
	const op = "authclient.RefreshProfile"

	snap := c.session.Snapshot()
	if !snap.IsAuthenticated() {
		return nil, session.ErrNotAuthenticated
	}

	profile, err := c.api.Me(ctx, "")
	if err != nil {
		return nil, err
	}
	if err := c.session.UpdateUserAt(snap.Generation, profile); err != nil {
		if errors.Is(err, session.ErrStale) {
			c.log.Debug("discarding stale profile", slog.String("op", op))
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile сохраняет изменения профиля и заменяет профиль в сессии.
func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) Outcome {
	const op = "authclient.UpdateProfile"
	log := c.log.With(slog.String("op", op))

	if fields := c.validate.Struct(upd); fields != nil {
		return Outcome{FieldErrors: fields}
	}

	snap := c.session.Snapshot()
	profile, err := c.api.UpdateProfile(ctx, upd)
	if err != nil {
		log.Info("profile update failed", sl.Err(err))
		return c.failure(err, MsgProfileFailed)
	}

	if err := c.session.UpdateUserAt(snap.Generation, profile); err != nil {
		log.Debug("profile response not applied", sl.Err(err))
	}
	c.notifier.Success(MsgProfileUpdated)
	return Outcome{OK: true}
}

// failure сообщает об ошибке API: сетевая ошибка даёт общий текст, ошибки
// полей возвращаются форме, иначе показывается detail ответа или fallback.
// На 401 сессию уже сбросил транспорт и показал предупреждение, поэтому
// остаётся только перейти на вход.
func (c *Client) failure(err error, fallback string) Outcome {
	if restclient.IsUnauthorized(err) {
		return Outcome{Navigate: LoginPath}
	}
	return c.report(err, fallback)
}

// loginFailure сообщает об ошибке входа. Запросы входа не проходят через
// общий обработчик 401, поэтому 401 здесь означает неверные учётные данные.
func (c *Client) loginFailure(err error) Outcome {
	return c.report(err, MsgLoginFailed)
}

func (c *Client) report(err error, fallback string) Outcome {
	if restclient.IsNetwork(err) {
		c.notifier.Error(MsgNetworkError)
		return Outcome{}
	}
	if fields := restclient.FieldErrors(err); len(fields) > 0 {
		return Outcome{FieldErrors: fields}
	}
	if detail := restclient.Detail(err); detail != "" {
		c.notifier.Error(detail)
		return Outcome{}
	}
	c.notifier.Error(fallback)
	return Outcome{}
}
