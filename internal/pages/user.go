package pages

import (
	"context"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

const (
	MsgDashboardLoadFailed     = "Failed to load dashboard data. Please try again later."
	MsgRegistrationsLoadFailed = "Failed to load your registrations. Please try again later."
	MsgRegistrationCancelled   = "Registration cancelled successfully!"
	MsgCancelFailed            = "Failed to cancel registration. Please try again."
)

// UserDashboardData — данные панели пользователя.
type UserDashboardData struct {
	User          *models.UserProfile
	Registrations []models.Registration
	Upcoming      []models.Workshop
}

// UserDashboard загружает заявки пользователя и ближайшие мастерские для его класса.
func (p *Pages) UserDashboard(ctx context.Context) (*UserDashboardData, error) {
	const op = "pages.UserDashboard"

	user := p.session.Snapshot().CurrentUser()
	regs, err := p.api.MyRegistrations(ctx)
	if err != nil {
		return nil, p.loadFailed(op, err, MsgDashboardLoadFailed)
	}

	filter := models.WorkshopFilter{Status: models.WorkshopUpcoming, Limit: 3}
	if user != nil && user.Grade != nil {
		filter.Grade = *user.Grade
	}
	upcoming, err := p.api.Workshops(ctx, filter)
	if err != nil {
		return nil, p.loadFailed(op, err, MsgDashboardLoadFailed)
	}
	return &UserDashboardData{User: user, Registrations: regs, Upcoming: upcoming}, nil
}

// MyRegistrations загружает заявки пользователя.
func (p *Pages) MyRegistrations(ctx context.Context) ([]models.Registration, error) {
	const op = "pages.MyRegistrations"

	regs, err := p.api.MyRegistrations(ctx)
	if err != nil {
		return nil, p.loadFailed(op, err, MsgRegistrationsLoadFailed)
	}
	return regs, nil
}

// CancelRegistration отменяет заявку.
func (p *Pages) CancelRegistration(ctx context.Context, id string) Outcome {
	const op = "pages.CancelRegistration"

	if err := p.api.CancelRegistration(ctx, id); err != nil {
		return p.actionFailed(op, err, MsgCancelFailed)
	}
	p.notifier.Success(MsgRegistrationCancelled)
	return Outcome{OK: true}
}
