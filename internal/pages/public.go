package pages

import (
	"context"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

const (
	MsgWorkshopsLoadFailed = "Failed to load workshops. Please try again later."
	MsgWorkshopLoadFailed  = "Failed to load workshop details. Please try again later."
	MsgRegistrationSent    = "Registration submitted successfully!"
	MsgRegistrationFailed  = "Failed to submit registration. Please try again."
)

// HomeData — данные главной страницы.
type HomeData struct {
	Featured []models.Workshop
	Upcoming []models.Workshop
}

// Home загружает избранные и ближайшие мастерские.
func (p *Pages) Home(ctx context.Context) (*HomeData, error) {
	const op = "pages.Home"

	featured := true
	top, err := p.api.Workshops(ctx, models.WorkshopFilter{Featured: &featured, Limit: 5})
	if err != nil {
		return nil, p.loadFailed(op, err, MsgWorkshopsLoadFailed)
	}
	upcoming, err := p.api.Workshops(ctx, models.WorkshopFilter{Status: models.WorkshopUpcoming, Limit: 3})
	if err != nil {
		return nil, p.loadFailed(op, err, MsgWorkshopsLoadFailed)
	}
	return &HomeData{Featured: top, Upcoming: upcoming}, nil
}

// WorkshopList загружает каталог мастерских по фильтру.
func (p *Pages) WorkshopList(ctx context.Context, filter models.WorkshopFilter) ([]models.Workshop, error) {
	const op = "pages.WorkshopList"

	list, err := p.api.Workshops(ctx, filter)
	if err != nil {
		return nil, p.loadFailed(op, err, MsgWorkshopsLoadFailed)
	}
	return list, nil
}

// WorkshopDetail загружает карточку мастерской.
func (p *Pages) WorkshopDetail(ctx context.Context, id string) (*models.Workshop, error) {
	const op = "pages.WorkshopDetail"

	w, err := p.api.Workshop(ctx, id)
	if err != nil {
		return nil, p.loadFailed(op, err, MsgWorkshopLoadFailed)
	}
	return w, nil
}

// RegistrationForm — данные формы заявки.
type RegistrationForm struct {
	Workshop *models.Workshop
	Prefill  models.RegistrationInput
}

// RegistrationFormData загружает мастерскую и заполняет анкету из профиля
// вошедшего пользователя.
func (p *Pages) RegistrationFormData(ctx context.Context, workshopID string) (*RegistrationForm, error) {
	const op = "pages.RegistrationFormData"

	w, err := p.api.Workshop(ctx, workshopID)
	if err != nil {
		return nil, p.loadFailed(op, err, MsgWorkshopLoadFailed)
	}

	form := &RegistrationForm{Workshop: w, Prefill: models.RegistrationInput{WorkshopID: w.ID}}
	if snap := p.session.Snapshot(); snap.IsAuthenticated() {
		form.Prefill.FromProfile(snap.User)
	}
	return form, nil
}

// SubmitRegistration отправляет заявку. Гость после отправки уходит на
// главную, вошедший пользователь на список своих заявок.
func (p *Pages) SubmitRegistration(ctx context.Context, in models.RegistrationInput) Outcome {
	const op = "pages.SubmitRegistration"

	snap := p.session.Snapshot()
	if snap.IsAuthenticated() {
		in.FromProfile(snap.User)
	}
	if fields := p.validate.Struct(in); fields != nil {
		return Outcome{FieldErrors: fields}
	}

	if _, err := p.api.CreateRegistration(ctx, in); err != nil {
		return p.actionFailed(op, err, MsgRegistrationFailed)
	}

	p.notifier.Success(MsgRegistrationSent)
	if snap.IsAuthenticated() {
		return Outcome{OK: true, Navigate: "/dashboard/registrations"}
	}
	return Outcome{OK: true, Navigate: "/"}
}
