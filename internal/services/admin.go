package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/apierr"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/storage"
)

// dashboardDays — число дней в графике заявок панели.
const dashboardDays = 7

const exportHeader = "Full Name,Email,Grade,School,Phone,Parent Name,Parent Phone,Status,Payment Status,Registration Date"

// AdminService — операции панели администратора.
type AdminService struct {
	users         UserRepository
	workshops     WorkshopRepository
	registrations RegistrationRepository
	log           *slog.Logger
	now           func() time.Time
}

// NewAdminService создаёт AdminService.
func NewAdminService(
	users UserRepository,
	workshops WorkshopRepository,
	registrations RegistrationRepository,
	log *slog.Logger,
) *AdminService {
	return &AdminService{
		users:         users,
		workshops:     workshops,
		registrations: registrations,
		log:           sl.OrDiscard(log),
		now:           time.Now,
	}
}

// Dashboard собирает сводку: количества и заявки по дням за последнюю неделю.
func (s *AdminService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	const op = "services.AdminService.Dashboard"

	totalWorkshops, upcoming, err := s.workshops.CountWorkshops(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	totalUsers, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	all, err := s.registrations.Registrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats := &models.DashboardStats{
		TotalWorkshops:     totalWorkshops,
		TotalUsers:         totalUsers,
		TotalRegistrations: len(all),
		UpcomingWorkshops:  upcoming,
		DailyRegistrations: make([]models.DailyCount, 0, dashboardDays),
	}
	for _, r := range all {
		if r.RegistrationStatus == models.RegistrationPending {
			stats.PendingRegistrations++
		}
	}

	from := s.now().UTC().AddDate(0, 0, -dashboardDays)
	for i := 0; i < dashboardDays; i++ {
		day := from.AddDate(0, 0, i)
		regs, err := s.registrations.RegistrationsBetween(ctx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		stats.DailyRegistrations = append(stats.DailyRegistrations, models.DailyCount{
			Date:  day.Format("2006-01-02"),
			Count: len(regs),
		})
	}
	return stats, nil
}

// Users возвращает всех пользователей.
func (s *AdminService) Users(ctx context.Context) ([]models.UserProfile, error) {
	const op = "services.AdminService.Users"
	users, err := s.users.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// UpdateUser изменяет чужую учётную запись. Свою администратор менять не может.
func (s *AdminService) UpdateUser(ctx context.Context, actor Actor, id string, in models.UserUpdate) (*models.UserProfile, error) {
	const op = "services.AdminService.UpdateUser"

	if _, err := s.users.UserByID(ctx, id); err != nil {
		return nil, notFound(op, err, "User not found")
	}
	if id == actor.ID {
		return nil, apierr.Forbidden("Admin cannot update their own user details")
	}
	if in.IsEmpty() {
		return nil, noFields()
	}

	updated, err := s.users.UpdateUser(ctx, id, func(u *storage.User) {
		applyProfile(&u.UserProfile, in.ProfileUpdate)
		setIf(&u.Role, in.Role)
		setIf(&u.IsActive, in.IsActive)
	})
	if err != nil {
		return nil, notFound(op, err, "User not found")
	}
	s.log.Info("user updated by admin",
		slog.String("user_id", id),
		slog.String("admin_id", actor.ID),
	)
	return updated.Profile(), nil
}

// Registrations возвращает все заявки.
func (s *AdminService) Registrations(ctx context.Context) ([]models.Registration, error) {
	const op = "services.AdminService.Registrations"
	list, err := s.registrations.Registrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Export формирует CSV с заявками мастерской.
func (s *AdminService) Export(ctx context.Context, workshopID string) (*models.RegistrationExport, error) {
	const op = "services.AdminService.Export"

	w, err := s.workshops.Workshop(ctx, workshopID)
	if err != nil {
		return nil, notFound(op, err, "Workshop not found")
	}
	regs, err := s.registrations.RegistrationsByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(regs) == 0 {
		return nil, apierr.NotFound("No registrations found for this workshop")
	}

	rows := make([]string, 0, len(regs)+1)
	rows = append(rows, exportHeader)
	for _, r := range regs {
		rows = append(rows, strings.Join([]string{
			quote(r.FullName),
			quote(r.Email),
			strconv.Itoa(r.Grade),
			quote(r.School),
			quote(r.Phone),
			quote(r.ParentName),
			quote(r.ParentPhone),
			r.RegistrationStatus,
			r.PaymentStatus,
			r.CreatedAt.Format("2006-01-02"),
		}, ","))
	}

	return &models.RegistrationExport{
		Filename:      fmt.Sprintf("workshop_%s_registrations.csv", workshopID),
		Content:       strings.Join(rows, "\n"),
		WorkshopTitle: w.Title,
	}, nil
}

// quote заключает значение в кавычки, удваивая кавычки внутри.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
