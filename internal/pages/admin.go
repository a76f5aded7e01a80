package pages

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

const (
	MsgStatsLoadFailed         = "Failed to load dashboard statistics. Please try again later."
	MsgUsersLoadFailed         = "Failed to load users. Please try again later."
	MsgAllRegsLoadFailed       = "Failed to load registrations. Please try again later."
	MsgWorkshopDeleted         = "Workshop deleted successfully!"
	MsgWorkshopDeleteFailed    = "Failed to delete workshop. Please try again."
	MsgWorkshopCreated         = "Workshop created successfully!"
	MsgWorkshopUpdated         = "Workshop updated successfully!"
	MsgWorkshopCreateFailed    = "Failed to create workshop"
	MsgWorkshopUpdateFailed    = "Failed to update workshop"
	MsgRegistrationReviewError = "Failed to update registration. Please try again."
	MsgExportFailed            = "Failed to export registrations. Please try again."
	MsgUserUpdated             = "User updated successfully!"
	MsgUserUpdateFailed        = "Failed to update user. Please try again."

	adminWorkshopsPath = "/admin/workshops"
	adminListLimit     = 100
)

// AdminDashboard загружает статистику панели администратора.
func (p *Pages) AdminDashboard(ctx context.Context) (*models.DashboardStats, error) {
	const op = "pages.AdminDashboard"

	stats, err := p.api.DashboardStats(ctx)
	if err != nil {
		return nil, p.loadFailed(op, err, MsgStatsLoadFailed)
	}
	return stats, nil
}

// AdminWorkshops загружает все мастерские для управления.
func (p *Pages) AdminWorkshops(ctx context.Context) ([]models.Workshop, error) {
	const op = "pages.AdminWorkshops"

	list, err := p.api.Workshops(ctx, models.WorkshopFilter{Limit: adminListLimit})
	if err != nil {
		return nil, p.loadFailed(op, err, MsgWorkshopsLoadFailed)
	}
	return list, nil
}

// DeleteWorkshop удаляет мастерскую.
func (p *Pages) DeleteWorkshop(ctx context.Context, id string) Outcome {
	const op = "pages.DeleteWorkshop"

	if err := p.api.DeleteWorkshop(ctx, id); err != nil {
		return p.actionFailed(op, err, MsgWorkshopDeleteFailed)
	}
	p.notifier.Success(MsgWorkshopDeleted)
	return Outcome{OK: true}
}

// SaveWorkshop создаёт мастерскую при пустом id, иначе обновляет её.
// После сохранения ведёт на список мастерских.
func (p *Pages) SaveWorkshop(ctx context.Context, id string, in models.WorkshopInput) Outcome {
	const op = "pages.SaveWorkshop"

	if fields := p.validate.Struct(in); fields != nil {
		return Outcome{FieldErrors: fields}
	}

	if id == "" {
		if _, err := p.api.CreateWorkshop(ctx, in); err != nil {
			return p.actionFailed(op, err, MsgWorkshopCreateFailed)
		}
		p.notifier.Success(MsgWorkshopCreated)
		return Outcome{OK: true, Navigate: adminWorkshopsPath}
	}

	if _, err := p.api.UpdateWorkshop(ctx, id, fullUpdate(in)); err != nil {
		return p.actionFailed(op, err, MsgWorkshopUpdateFailed)
	}
	p.notifier.Success(MsgWorkshopUpdated)
	return Outcome{OK: true, Navigate: adminWorkshopsPath}
}

func fullUpdate(in models.WorkshopInput) models.WorkshopUpdate {
	return models.WorkshopUpdate{
		Title:                &in.Title,
		Description:          &in.Description,
		ShortDescription:     &in.ShortDescription,
		ImageURL:             &in.ImageURL,
		StartDate:            &in.StartDate,
		EndDate:              &in.EndDate,
		RegistrationDeadline: &in.RegistrationDeadline,
		Location:             &in.Location,
		MaxParticipants:      &in.MaxParticipants,
		Fee:                  &in.Fee,
		EligibleGrades:       in.EligibleGrades,
		Featured:             &in.Featured,
		Status:               &in.Status,
	}
}

// AdminRegistrationsData — заявки вместе с мастерскими для фильтра.
type AdminRegistrationsData struct {
	Registrations []models.Registration
	Workshops     []models.Workshop
}

// AdminRegistrations загружает все заявки и мастерские.
func (p *Pages) AdminRegistrations(ctx context.Context) (*AdminRegistrationsData, error) {
	const op = "pages.AdminRegistrations"

	regs, err := p.api.AllRegistrations(ctx)
	if err != nil {
		return nil, p.loadFailed(op, err, MsgAllRegsLoadFailed)
	}
	workshops, err := p.api.Workshops(ctx, models.WorkshopFilter{Limit: adminListLimit})
	if err != nil {
		return nil, p.loadFailed(op, err, MsgAllRegsLoadFailed)
	}
	return &AdminRegistrationsData{Registrations: regs, Workshops: workshops}, nil
}

// ReviewRegistration одобряет или отклоняет заявку.
func (p *Pages) ReviewRegistration(ctx context.Context, id, status, notes string) Outcome {
	const op = "pages.ReviewRegistration"

	upd := models.RegistrationUpdate{RegistrationStatus: &status}
	if notes != "" {
		upd.Notes = &notes
	}
	if fields := p.validate.Struct(upd); fields != nil {
		return Outcome{FieldErrors: fields}
	}

	if _, err := p.api.UpdateRegistration(ctx, id, upd); err != nil {
		return p.actionFailed(op, err, MsgRegistrationReviewError)
	}
	verb := "rejected"
	if status == models.RegistrationApproved {
		verb = "approved"
	}
	p.notifier.Success(fmt.Sprintf("Registration %s successfully!", verb))
	return Outcome{OK: true}
}

// ExportRegistrations выгружает заявки мастерской в CSV.
func (p *Pages) ExportRegistrations(ctx context.Context, workshopID string) (*models.RegistrationExport, Outcome) {
	const op = "pages.ExportRegistrations"

	export, err := p.api.ExportRegistrations(ctx, workshopID)
	if err != nil {
		p.log.Info("export failed", slog.String("op", op), sl.Err(err))
		p.notifier.Error(MsgExportFailed)
		return nil, Outcome{}
	}
	p.notifier.Success(fmt.Sprintf("Exported registrations for %s", export.WorkshopTitle))
	return export, Outcome{OK: true}
}

// AdminUsers загружает всех пользователей.
func (p *Pages) AdminUsers(ctx context.Context) ([]models.UserProfile, error) {
	const op = "pages.AdminUsers"

	users, err := p.api.Users(ctx)
	if err != nil {
		return nil, p.loadFailed(op, err, MsgUsersLoadFailed)
	}
	return users, nil
}

// UpdateUser изменяет пользователя от имени администратора.
func (p *Pages) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) Outcome {
	const op = "pages.UpdateUser"

	if fields := p.validate.Struct(upd); fields != nil {
		return Outcome{FieldErrors: fields}
	}
	if _, err := p.api.UpdateUser(ctx, id, upd); err != nil {
		return p.actionFailed(op, err, MsgUserUpdateFailed)
	}
	p.notifier.Success(MsgUserUpdated)
	return Outcome{OK: true}
}
