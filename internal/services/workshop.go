package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/apierr"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

// WorkshopService — каталог мастерских.
type WorkshopService struct {
	repo WorkshopRepository
	log  *slog.Logger
}

// NewWorkshopService создаёт WorkshopService.
func NewWorkshopService(repo WorkshopRepository, log *slog.Logger) *WorkshopService {
	return &WorkshopService{repo: repo, log: sl.OrDiscard(log)}
}

// List возвращает страницу каталога по фильтру.
func (s *WorkshopService) List(ctx context.Context, f models.WorkshopFilter) ([]models.Workshop, error) {
	const op = "services.WorkshopService.List"
	list, err := s.repo.Workshops(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Get возвращает мастерскую по ID.
func (s *WorkshopService) Get(ctx context.Context, id string) (*models.Workshop, error) {
	const op = "services.WorkshopService.Get"
	w, err := s.repo.Workshop(ctx, id)
	if err != nil {
		return nil, notFound(op, err, "Workshop not found")
	}
	return w, nil
}

// Create добавляет мастерскую. Пустой статус означает upcoming.
func (s *WorkshopService) Create(ctx context.Context, in models.WorkshopInput) (*models.Workshop, error) {
	const op = "services.WorkshopService.Create"
	status := in.Status
	if status == "" {
		status = models.WorkshopUpcoming
	}
	created, err := s.repo.CreateWorkshop(ctx, models.Workshop{
		Title:                in.Title,
		Description:          in.Description,
		ShortDescription:     in.ShortDescription,
		ImageURL:             in.ImageURL,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		RegistrationDeadline: in.RegistrationDeadline,
		Location:             in.Location,
		MaxParticipants:      in.MaxParticipants,
		Fee:                  in.Fee,
		EligibleGrades:       in.EligibleGrades,
		Featured:             in.Featured,
		Status:               status,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("workshop created", slog.String("workshop_id", created.ID))
	return created, nil
}

// Update изменяет переданные поля мастерской.
func (s *WorkshopService) Update(ctx context.Context, id string, in models.WorkshopUpdate) (*models.Workshop, error) {
	const op = "services.WorkshopService.Update"
	if in.IsEmpty() {
		return nil, noFields()
	}
	updated, err := s.repo.UpdateWorkshop(ctx, id, func(w *models.Workshop) {
		applyWorkshop(w, in)
	})
	if err != nil {
		return nil, notFound(op, err, "Workshop not found")
	}
	return updated, nil
}

// Delete удаляет мастерскую без заявок.
func (s *WorkshopService) Delete(ctx context.Context, id string) error {
	const op = "services.WorkshopService.Delete"
	n, err := s.repo.DeleteWorkshop(ctx, id)
	if err != nil {
		return notFound(op, err, "Workshop not found")
	}
	if n > 0 {
		return apierr.BadRequest(fmt.Sprintf("Cannot delete workshop with active registrations (%d found)", n))
	}
	s.log.Info("workshop deleted", slog.String("workshop_id", id))
	return nil
}

func applyWorkshop(w *models.Workshop, in models.WorkshopUpdate) {
	setIf(&w.Title, in.Title)
	setIf(&w.Description, in.Description)
	setIf(&w.ShortDescription, in.ShortDescription)
	setIf(&w.ImageURL, in.ImageURL)
	setIf(&w.StartDate, in.StartDate)
	setIf(&w.EndDate, in.EndDate)
	setIf(&w.RegistrationDeadline, in.RegistrationDeadline)
	setIf(&w.Location, in.Location)
	setIf(&w.MaxParticipants, in.MaxParticipants)
	setIf(&w.Fee, in.Fee)
	setIf(&w.Featured, in.Featured)
	setIf(&w.Status, in.Status)
	if in.EligibleGrades != nil {
		w.EligibleGrades = append([]int(nil), in.EligibleGrades...)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
