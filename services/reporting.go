package services

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meinhoongagan/kure-api/apperrors"
	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/repository"
	"github.com/meinhoongagan/kure-api/utils"
)

const (
	defaultPage     = 1
	defaultLimit    = 50
	maxLimit        = 500
	weeklyListLimit = 10

	statusAll     = "all"
	statusCurrent = "current"

	MatchedOnAppointmentDate = "appointmentDate"
	MatchedOnCreatedAt       = "createdAt"
)

var sortColumns = map[string]string{
	"appointmentDate": "appointment_date",
	"appointmentTime": "appointment_time",
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
	"amount":          "amount",
	"status":          "status",
}

// ListQuery is the raw query string of a provider listing.
type ListQuery struct {
	Status    string `query:"status"`
	FromDate  string `query:"fromDate"`
	ToDate    string `query:"toDate"`
	Page      string `query:"page"`
	Limit     string `query:"limit"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
}

type ListFilters struct {
	Status    string `json:"status"`
	FromDate  string `json:"fromDate,omitempty"`
	ToDate    string `json:"toDate,omitempty"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

type AppointmentPage struct {
	Appointments []models.AppointmentView `json:"appointments"`
	Pagination   Pagination               `json:"pagination"`
	Statistics   repository.StatusCounts  `json:"statistics"`
	Filters      ListFilters              `json:"filters"`
}

type ProviderStats struct {
	ServicesCount     int64 `json:"servicesCount"`
	ActiveServices    int64 `json:"activeServices"`
	AppointmentsCount int64 `json:"appointmentsCount"`
	ClientsCount      int64 `json:"clientsCount"`
	ActiveClients     int64 `json:"activeClients"`
	CompletedClients  int64 `json:"completedClients"`
}

type WindowStats struct {
	TotalAppointments     int64 `json:"totalAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	PendingAppointments   int64 `json:"pendingAppointments"`
	ConfirmedAppointments int64 `json:"confirmedAppointments"`
	CancelledAppointments int64 `json:"cancelledAppointments"`
}

type TodayReport struct {
	Date         string                   `json:"date"`
	MatchedOn    string                   `json:"matchedOn"`
	Stats        WindowStats              `json:"stats"`
	Appointments []models.AppointmentView `json:"appointments"`
}

type WeeklyReport struct {
	Since              time.Time                `json:"since"`
	Stats              WindowStats              `json:"stats"`
	WeeklyAppointments []models.AppointmentView `json:"weeklyAppointments"`
}

type MonthlyStats struct {
	TotalAppointments     int64           `json:"totalAppointments"`
	CompletedAppointments int64           `json:"completedAppointments"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	AverageAmount         decimal.Decimal `json:"averageAmount"`
}

// WeekGroup is one ISO week of the monthly report.
type WeekGroup struct {
	Year         int                      `json:"year"`
	Week         int                      `json:"week"`
	Count        int                      `json:"count"`
	Appointments []models.AppointmentView `json:"appointments"`
}

type MonthlyReport struct {
	Since               time.Time    `json:"since"`
	Stats               MonthlyStats `json:"stats"`
	MonthlyAppointments []WeekGroup  `json:"monthlyAppointments"`
}

type ProviderAppointments struct {
	Appointments []models.AppointmentView
	Statistics   repository.StatusCounts
}

// ReportingService builds the provider dashboard views. Reads that are
// independent of each other run concurrently; any failure fails the call.
type ReportingService struct {
	appointments repository.AppointmentRepository
	services     repository.ServiceRepository
	loc          *time.Location
	now          func() time.Time
	log          *zap.Logger
}

func NewReportingService(
	appointments repository.AppointmentRepository,
	services repository.ServiceRepository,
	loc *time.Location,
	log *zap.Logger,
) *ReportingService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportingService{
		appointments: appointments,
		services:     services,
		loc:          loc,
		now:          time.Now,
		log:          log.Named("reporting"),
	}
}

// WithClock replaces the wall clock, for tests.
func (s *ReportingService) WithClock(now func() time.Time) *ReportingService {
	s.now = now
	return s
}

// ListProviderAppointments returns one page of the provider's appointments.
// defaultDesc picks the direction used when sortOrder is absent.
func (s *ReportingService) ListProviderAppointments(ctx context.Context, providerID uint, q ListQuery, defaultDesc bool) (*AppointmentPage, error) {
	statuses, statusLabel, err := parseStatusFilter(q.Status)
	if err != nil {
		return nil, err
	}
	page, err := parsePositive(q.Page, defaultPage, "page")
	if err != nil {
		return nil, err
	}
	limit, err := parsePositive(q.Limit, defaultLimit, "limit")
	if err != nil {
		return nil, err
	}
	if limit > maxLimit {
		return nil, apperrors.Validation("limit must not exceed " + strconv.Itoa(maxLimit))
	}
	if page-1 > math.MaxInt/limit {
		return nil, apperrors.Validation("page is out of range")
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "appointmentDate"
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, apperrors.Validation("Invalid sortBy: " + sortBy)
	}
	desc := defaultDesc
	switch strings.ToLower(q.SortOrder) {
	case "":
	case "asc":
		desc = false
	case "desc":
		desc = true
	default:
		return nil, apperrors.Validation("sortOrder must be asc or desc")
	}

	filter := repository.AppointmentFilter{
		ProviderID: providerID,
		Statuses:   statuses,
		FromDate:   q.FromDate,
		ToDate:     q.ToDate,
	}

	var (
		rows   []models.Appointment
		total  int64
		counts repository.StatusCounts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.appointments.Find(gctx, filter,
			repository.Sort{Column: column, Desc: desc},
			repository.Window{Offset: (page - 1) * limit, Limit: limit})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.appointments.Count(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.appointments.StatusCounts(gctx, repository.AppointmentFilter{ProviderID: providerID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("Failed to fetch provider appointments", err)
	}

	order := "asc"
	if desc {
		order = "desc"
	}
	return &AppointmentPage{
		Appointments: models.Views(rows),
		Pagination: Pagination{
			CurrentPage: page,
			TotalPages:  (total + int64(limit) - 1) / int64(limit),
			TotalCount:  total,
			Limit:       limit,
		},
		Statistics: counts,
		Filters: ListFilters{
			Status:    statusLabel,
			FromDate:  q.FromDate,
			ToDate:    q.ToDate,
			SortBy:    sortBy,
			SortOrder: order,
		},
	}, nil
}

func (s *ReportingService) ProviderStats(ctx context.Context, providerID uint) (*ProviderStats, error) {
	now := s.now()
	today := utils.DateIn(now, s.loc)
	owned := repository.AppointmentFilter{ProviderID: providerID}

	var stats ProviderStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ServicesCount, err = s.services.CountByProvider(gctx, providerID, "")
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveServices, err = s.services.CountByProvider(gctx, providerID, models.ServiceActive)
		return err
	})
	g.Go(func() (err error) {
		stats.AppointmentsCount, err = s.appointments.Count(gctx, repository.AppointmentFilter{
			ProviderID:      providerID,
			AppointmentDate: today,
		})
		return err
	})
	g.Go(func() (err error) {
		stats.ClientsCount, err = s.appointments.DistinctUsers(gctx, owned)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveClients, err = s.appointments.DistinctUsers(gctx, repository.AppointmentFilter{
			ProviderID:  providerID,
			CreatedFrom: now.AddDate(0, 0, -30),
		})
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedClients, err = s.appointments.DistinctUsers(gctx, repository.AppointmentFilter{
			ProviderID: providerID,
			Statuses:   []models.AppointmentStatus{models.StatusCompleted},
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("Failed to fetch provider statistics", err)
	}
	return &stats, nil
}

// Today reports the provider's appointments for the current day. Rows whose
// appointmentDate is today take precedence; only when there are none does
// the report fall back to rows created today.
func (s *ReportingService) Today(ctx context.Context, providerID uint) (*TodayReport, error) {
	now := s.now()
	today := utils.DateIn(now, s.loc)
	bySchedule := repository.AppointmentFilter{ProviderID: providerID, AppointmentDate: today}

	report, err := s.window(ctx, bySchedule)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch today's appointments", err)
	}
	report.Date = today
	report.MatchedOn = MatchedOnAppointmentDate
	if report.Stats.TotalAppointments > 0 {
		return report, nil
	}

	start := utils.StartOfDay(now, s.loc)
	byCreation := repository.AppointmentFilter{
		ProviderID:  providerID,
		CreatedFrom: start,
		CreatedTo:   start.AddDate(0, 0, 1),
	}
	fallback, err := s.window(ctx, byCreation)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch today's appointments", err)
	}
	if fallback.Stats.TotalAppointments == 0 {
		return report, nil
	}

	s.log.Debug("today matched on creation time", zap.Uint("provider_id", providerID))
	fallback.Date = today
	fallback.MatchedOn = MatchedOnCreatedAt
	return fallback, nil
}

func (s *ReportingService) window(ctx context.Context, filter repository.AppointmentFilter) (*TodayReport, error) {
	var (
		counts repository.StatusCounts
		rows   []models.Appointment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = s.appointments.StatusCounts(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		rows, err = s.appointments.Find(gctx, filter, repository.Sort{Column: "appointment_time"}, repository.Window{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &TodayReport{Stats: windowStats(counts), Appointments: models.Views(rows)}, nil
}

// Weekly covers appointments created in the last seven rolling days.
func (s *ReportingService) Weekly(ctx context.Context, providerID uint) (*WeeklyReport, error) {
	since := s.now().AddDate(0, 0, -7)
	filter := repository.AppointmentFilter{ProviderID: providerID, CreatedFrom: since}

	var (
		counts repository.StatusCounts
		rows   []models.Appointment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = s.appointments.StatusCounts(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		rows, err = s.appointments.Find(gctx, filter,
			repository.Sort{Column: "created_at", Desc: true},
			repository.Window{Limit: weeklyListLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("Failed to fetch weekly appointments", err)
	}

	return &WeeklyReport{
		Since:              since,
		Stats:              windowStats(counts),
		WeeklyAppointments: models.Views(rows),
	}, nil
}

// Monthly covers appointments created since the first day of the current
// month, grouped by ISO week of creation.
func (s *ReportingService) Monthly(ctx context.Context, providerID uint) (*MonthlyReport, error) {
	since := utils.StartOfMonth(s.now(), s.loc)
	filter := repository.AppointmentFilter{ProviderID: providerID, CreatedFrom: since}
	completed := filter
	completed.Statuses = []models.AppointmentStatus{models.StatusCompleted}

	var (
		totals         repository.Totals
		completedCount int64
		rows           []models.Appointment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = s.appointments.Totals(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		completedCount, err = s.appointments.Count(gctx, completed)
		return err
	})
	g.Go(func() (err error) {
		rows, err = s.appointments.Find(gctx, filter, repository.Sort{Column: "created_at"}, repository.Window{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal("Failed to fetch monthly appointments", err)
	}

	average := decimal.Zero
	if totals.Count > 0 {
		average = totals.Sum.DivRound(decimal.NewFromInt(totals.Count), 2)
	}

	return &MonthlyReport{
		Since: since,
		Stats: MonthlyStats{
			TotalAppointments:     totals.Count,
			CompletedAppointments: completedCount,
			TotalAmount:           totals.Sum,
			AverageAmount:         average,
		},
		MonthlyAppointments: groupByWeek(rows, s.loc),
	}, nil
}

// AllByProvider returns every appointment of the provider, newest first,
// with status counts over the same rows.
func (s *ReportingService) AllByProvider(ctx context.Context, providerID uint) (*ProviderAppointments, error) {
	rows, err := s.appointments.Find(ctx,
		repository.AppointmentFilter{ProviderID: providerID},
		repository.Sort{Column: "created_at", Desc: true},
		repository.Window{})
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch appointments", err)
	}

	var counts repository.StatusCounts
	for _, row := range rows {
		counts.Total++
		switch row.Status {
		case models.StatusPending:
			counts.Pending++
		case models.StatusConfirmed:
			counts.Confirmed++
		case models.StatusCompleted:
			counts.Completed++
		case models.StatusCancelled:
			counts.Cancelled++
		}
	}
	return &ProviderAppointments{Appointments: models.Views(rows), Statistics: counts}, nil
}

func windowStats(counts repository.StatusCounts) WindowStats {
	return WindowStats{
		TotalAppointments:     counts.Total,
		CompletedAppointments: counts.Completed,
		PendingAppointments:   counts.Pending,
		ConfirmedAppointments: counts.Confirmed,
		CancelledAppointments: counts.Cancelled,
	}
}

func groupByWeek(rows []models.Appointment, loc *time.Location) []WeekGroup {
	type key struct{ year, week int }
	index := map[key]int{}
	groups := []WeekGroup{}

	for i := range rows {
		year, week := rows[i].CreatedAt.In(loc).ISOWeek()
		k := key{year, week}
		pos, ok := index[k]
		if !ok {
			pos = len(groups)
			index[k] = pos
			groups = append(groups, WeekGroup{Year: year, Week: week, Appointments: []models.AppointmentView{}})
		}
		groups[pos].Appointments = append(groups[pos].Appointments, rows[i].View())
		groups[pos].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Year != groups[j].Year {
			return groups[i].Year < groups[j].Year
		}
		return groups[i].Week < groups[j].Week
	})
	return groups
}

// parseStatusFilter maps the status query value to a filter. "All" and the
// empty value mean no filter; "Current" means pending or confirmed.
func parseStatusFilter(raw string) ([]models.AppointmentStatus, string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "", statusAll:
		return nil, "All", nil
	case statusCurrent:
		return []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}, "Current", nil
	}

	status := models.AppointmentStatus(value)
	if !status.Valid() {
		return nil, "", apperrors.Validation("Invalid status filter: " + raw)
	}
	return []models.AppointmentStatus{status}, value, nil
}

func parsePositive(raw string, def int, name string) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.Validation(name + " must be a positive integer")
	}
	return n, nil
}
