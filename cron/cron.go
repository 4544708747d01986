package cron

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/meinhoongagan/kure-api/models"
	"github.com/meinhoongagan/kure-api/utils"
)

const runTimeout = 5 * time.Minute

// AppointmentSource lists confirmed appointments for a day (YYYY-MM-DD).
type AppointmentSource interface {
	ConfirmedOn(ctx context.Context, date string) ([]models.Appointment, error)
}

type Mailer interface {
	Send(to, subject, body string) error
}

type ReminderRecorder interface {
	RecordReminder(sent bool)
}

// Reminders emails users the day before a confirmed appointment.
type Reminders struct {
	appointments AppointmentSource
	mailer       Mailer
	recorder     ReminderRecorder
	loc          *time.Location
	now          func() time.Time
	log          *zap.Logger
}

func NewReminders(appointments AppointmentSource, mailer Mailer, recorder ReminderRecorder, loc *time.Location, log *zap.Logger) *Reminders {
	if loc == nil {
		loc = time.UTC
	}
	return &Reminders{
		appointments: appointments,
		mailer:       mailer,
		recorder:     recorder,
		loc:          loc,
		now:          time.Now,
		log:          log.Named("reminders"),
	}
}

// StartCronJobs schedules the reminder run on schedule and starts the
// scheduler. Call Stop on the result during shutdown.
func StartCronJobs(schedule string, r *Reminders) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(r.loc))
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		r.Run(ctx)
	}); err != nil {
		return nil, err
	}
	c.Start()
	r.log.Info("cron job scheduler started for appointment reminders", zap.String("schedule", schedule))
	return c, nil
}

// Run sends one reminder per confirmed appointment scheduled tomorrow and
// returns how many were delivered. A failed email is logged and skipped.
func (r *Reminders) Run(ctx context.Context) int {
	tomorrow := utils.DateIn(r.now().AddDate(0, 0, 1), r.loc)

	appointments, err := r.appointments.ConfirmedOn(ctx, tomorrow)
	if err != nil {
		r.log.Error("error fetching appointments for reminders", zap.String("date", tomorrow), zap.Error(err))
		return 0
	}
	r.log.Info("found appointments for reminders", zap.String("date", tomorrow), zap.Int("count", len(appointments)))

	sent := 0
	for i := range appointments {
		if err := r.send(&appointments[i]); err != nil {
			r.log.Warn("failed to send reminder",
				zap.Uint("appointment_id", appointments[i].ID),
				zap.Error(err),
			)
			r.recorder.RecordReminder(false)
			continue
		}
		r.recorder.RecordReminder(true)
		sent++
	}
	return sent
}

func (r *Reminders) send(a *models.Appointment) error {
	if a.User == nil || a.User.Email == "" {
		return errNoRecipient
	}
	serviceName, providerName := "your service", "your provider"
	if a.Service != nil {
		serviceName = a.Service.Name
	}
	if a.Provider != nil {
		providerName = a.Provider.Name
	}
	subject, body := utils.ReminderEmail(a.User.Name, serviceName, providerName, a.AppointmentDate, a.AppointmentTime, a.Address)
	return r.mailer.Send(a.User.Email, subject, body)
}

var errNoRecipient = errors.New("appointment has no user email")
