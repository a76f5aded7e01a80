package models

// Статусы заявки и оплаты.
const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Registration — заявка на участие в мастерской (гостевая или от пользователя).
type Registration struct {
	ID                 string    `json:"_id"`
	WorkshopID         string    `json:"workshop_id"`
	UserID             string    `json:"user_id,omitempty"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	Grade              int       `json:"grade"`
	School             string    `json:"school"`
	Phone              string    `json:"phone"`
	ParentName         string    `json:"parent_name"`
	ParentPhone        string    `json:"parent_phone"`
	PaymentStatus      string    `json:"payment_status"`
	RegistrationStatus string    `json:"registration_status"`
	CreatedAt          Timestamp `json:"created_at"`
	PaymentID          string    `json:"payment_id,omitempty"`
	AmountPaid         *float64  `json:"amount_paid,omitempty"`
	Notes              string    `json:"notes,omitempty"`
}

// RegistrationInput — тело POST /registrations.
type RegistrationInput struct {
	WorkshopID  string `json:"workshop_id" validate:"required"`
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"full_name" validate:"required"`
	Grade       int    `json:"grade" validate:"required,min=1,max=12"`
	School      string `json:"school" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	ParentName  string `json:"parent_name" validate:"required"`
	ParentPhone string `json:"parent_phone" validate:"required"`
}

// FromProfile заполняет пустые поля анкеты данными профиля пользователя.
func (in *RegistrationInput) FromProfile(u *UserProfile) {
	if u == nil {
		return
	}
	in.UserID = u.ID
	if in.Email == "" {
		in.Email = u.Email
	}
	if in.FullName == "" {
		in.FullName = u.FullName
	}
	if in.Grade == 0 && u.Grade != nil {
		in.Grade = *u.Grade
	}
	if in.School == "" {
		in.School = u.School
	}
	if in.Phone == "" {
		in.Phone = u.Phone
	}
	if in.ParentName == "" {
		in.ParentName = u.ParentName
	}
	if in.ParentPhone == "" {
		in.ParentPhone = u.ParentPhone
	}
}

// RegistrationUpdate — изменение заявки администратором (PUT /registrations/{id}).
type RegistrationUpdate struct {
	PaymentStatus      *string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending completed failed"`
	RegistrationStatus *string `json:"registration_status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	PaymentID          *string `json:"payment_id,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

// IsEmpty сообщает, что в изменении нет ни одного поля.
func (u RegistrationUpdate) IsEmpty() bool {
	return u.PaymentStatus == nil && u.RegistrationStatus == nil && u.PaymentID == nil && u.Notes == nil
}
