// Package models содержит доменные структуры клиента платформы: профиль
// пользователя, мастерские, заявки, статистику панели администратора и уведомления.
// Теги json повторяют контракт REST API, теги validate используются формами.
package models

// UserProfile — профиль пользователя, который возвращает GET /auth/me.
// Для слоя сессии важна только роль, остальные поля нужны страницам.
type UserProfile struct {
	ID          string    `json:"_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Role        Role      `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   Timestamp `json:"created_at"`
	Grade       *int      `json:"grade,omitempty"`
	School      string    `json:"school,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	ParentName  string    `json:"parent_name,omitempty"`
	ParentPhone string    `json:"parent_phone,omitempty"`
}

// IsAdmin сообщает, является ли пользователь администратором.
func (u *UserProfile) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Credentials — тело запроса POST /auth/login.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest — полная анкета для POST /auth/register. Все поля обязательны.
type RegisterRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Grade       int    `json:"grade" validate:"required,min=1,max=12"`
	School      string `json:"school" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	ParentName  string `json:"parent_name" validate:"required"`
	ParentPhone string `json:"parent_phone" validate:"required"`
}

// ProfileUpdate — изменение собственного профиля (PUT /users/me).
type ProfileUpdate struct {
	FullName    *string `json:"full_name,omitempty" validate:"omitempty,min=1"`
	Grade       *int    `json:"grade,omitempty" validate:"omitempty,min=1,max=12"`
	School      *string `json:"school,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	ParentName  *string `json:"parent_name,omitempty"`
	ParentPhone *string `json:"parent_phone,omitempty"`
}

// IsEmpty сообщает, что в изменении нет ни одного поля.
func (p ProfileUpdate) IsEmpty() bool {
	return p.FullName == nil && p.Grade == nil && p.School == nil &&
		p.Phone == nil && p.ParentName == nil && p.ParentPhone == nil
}

// UserUpdate — изменение пользователя администратором (PUT /admin/users/{id}).
type UserUpdate struct {
	ProfileUpdate
	Role     *Role `json:"role,omitempty" validate:"omitempty,oneof=user organizer admin"`
	IsActive *bool `json:"is_active,omitempty"`
}

// IsEmpty сообщает, что в изменении нет ни одного поля.
func (u UserUpdate) IsEmpty() bool {
	return u.ProfileUpdate.IsEmpty() && u.Role == nil && u.IsActive == nil
}

// PasswordResetRequest — тело POST /auth/forgot-password.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm — тело POST /auth/reset-password.
type PasswordResetConfirm struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// PasswordChange — тело POST /auth/change-password.
type PasswordChange struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Message — типичный ответ бэкенда вида {"message": "..."}.
type Message struct {
	Message string `json:"message"`
}
