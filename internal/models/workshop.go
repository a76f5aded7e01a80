package models

// Статусы мастерской.
const (
	WorkshopUpcoming  = "upcoming"
	WorkshopOngoing   = "ongoing"
	WorkshopCompleted = "completed"
	WorkshopCancelled = "cancelled"
)

// Workshop — мастерская (научный кружок) из каталога.
type Workshop struct {
	ID                   string    `json:"_id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	ShortDescription     string    `json:"short_description"`
	ImageURL             string    `json:"image_url"`
	StartDate            Timestamp `json:"start_date"`
	EndDate              Timestamp `json:"end_date"`
	RegistrationDeadline Timestamp `json:"registration_deadline"`
	Location             string    `json:"location"`
	MaxParticipants      int       `json:"max_participants"`
	Fee                  float64   `json:"fee"`
	EligibleGrades       []int     `json:"eligible_grades"`
	Featured             bool      `json:"featured"`
	Status               string    `json:"status"`
	CreatedAt            Timestamp `json:"created_at"`
	RegisteredCount      int       `json:"registered_count"`
}

// SeatsLeft возвращает количество свободных мест, но не меньше нуля.
func (w Workshop) SeatsLeft() int {
	if left := w.MaxParticipants - w.RegisteredCount; left > 0 {
		return left
	}
	return 0
}

// IsEligible сообщает, допускается ли ученик данного класса.
func (w Workshop) IsEligible(grade int) bool {
	for _, g := range w.EligibleGrades {
		if g == grade {
			return true
		}
	}
	return false
}

// WorkshopInput — тело создания мастерской (POST /workshops).
type WorkshopInput struct {
	Title                string    `json:"title" validate:"required"`
	Description          string    `json:"description" validate:"required"`
	ShortDescription     string    `json:"short_description" validate:"required"`
	ImageURL             string    `json:"image_url" validate:"required"`
	StartDate            Timestamp `json:"start_date"`
	EndDate              Timestamp `json:"end_date"`
	RegistrationDeadline Timestamp `json:"registration_deadline"`
	Location             string    `json:"location" validate:"required"`
	MaxParticipants      int       `json:"max_participants" validate:"required,gt=0"`
	Fee                  float64   `json:"fee" validate:"gte=0"`
	EligibleGrades       []int     `json:"eligible_grades" validate:"required,min=1"`
	Featured             bool      `json:"featured"`
	Status               string    `json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

// WorkshopUpdate — частичное изменение мастерской (PUT /workshops/{id}).
type WorkshopUpdate struct {
	Title                *string    `json:"title,omitempty"`
	Description          *string    `json:"description,omitempty"`
	ShortDescription     *string    `json:"short_description,omitempty"`
	ImageURL             *string    `json:"image_url,omitempty"`
	StartDate            *Timestamp `json:"start_date,omitempty"`
	EndDate              *Timestamp `json:"end_date,omitempty"`
	RegistrationDeadline *Timestamp `json:"registration_deadline,omitempty"`
	Location             *string    `json:"location,omitempty"`
	MaxParticipants      *int       `json:"max_participants,omitempty" validate:"omitempty,gt=0"`
	Fee                  *float64   `json:"fee,omitempty" validate:"omitempty,gte=0"`
	EligibleGrades       []int      `json:"eligible_grades,omitempty"`
	Featured             *bool      `json:"featured,omitempty"`
	Status               *string    `json:"status,omitempty" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

// IsEmpty сообщает, что в изменении нет ни одного поля.
func (u WorkshopUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.ShortDescription == nil &&
		u.ImageURL == nil && u.StartDate == nil && u.EndDate == nil &&
		u.RegistrationDeadline == nil && u.Location == nil && u.MaxParticipants == nil &&
		u.Fee == nil && u.EligibleGrades == nil && u.Featured == nil && u.Status == nil
}

// WorkshopFilter — параметры GET /workshops.
type WorkshopFilter struct {
	Skip     int
	Limit    int
	Status   string
	Grade    int
	Featured *bool
	Search   string
}
