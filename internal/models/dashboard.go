package models

// DailyCount — число заявок за один день.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DashboardStats — сводка GET /admin/dashboard.
type DashboardStats struct {
	TotalWorkshops       int          `json:"total_workshops"`
	TotalUsers           int          `json:"total_users"`
	TotalRegistrations   int          `json:"total_registrations"`
	UpcomingWorkshops    int          `json:"upcoming_workshops"`
	PendingRegistrations int          `json:"pending_registrations"`
	DailyRegistrations   []DailyCount `json:"daily_registrations"`
}

// RegistrationExport — CSV-выгрузка заявок мастерской.
type RegistrationExport struct {
	Filename      string `json:"filename"`
	Content       string `json:"content"`
	WorkshopTitle string `json:"workshop_title"`
}
