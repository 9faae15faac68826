package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "mediremind/database/repository/appointment"
	medicationRepo "mediremind/database/repository/medication"
	notificationRepo "mediremind/database/repository/notification"
	"mediremind/models"
	"mediremind/services/notification"
	"mediremind/utils"

	"go.uber.org/zap"
)

// Report summarizes one scanner run.
type Report struct {
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Errors    []string `json:"errors"`
}

// Scanner walks reminder-eligible records and creates due notifications.
// A run is idempotent: the dedup gate bounds duplicates, so it is safe to
// invoke on any schedule, including overlapping invocations.
type Scanner interface {
	Run(ctx context.Context, now time.Time) Report
}

// DefaultReminderScanner is the production implementation.
type DefaultReminderScanner struct {
	Meds   medicationRepo.MedicationRepository
	Appts  appointmentRepo.AppointmentRepository
	Notifs notification.NotificationService

	Lead     time.Duration
	Window   time.Duration
	Cooldown time.Duration
}

func (s *DefaultReminderScanner) lead() time.Duration {
	if s.Lead > 0 {
		return s.Lead
	}
	return DefaultLead
}

func (s *DefaultReminderScanner) window() time.Duration {
	if s.Window > 0 {
		return s.Window
	}
	return DefaultWindow
}

func (s *DefaultReminderScanner) cooldown() time.Duration {
	if s.Cooldown > 0 {
		return s.Cooldown
	}
	return DefaultCooldown
}

// Run loads the candidate set and processes each candidate independently.
// A failure on one candidate is collected and never aborts the rest.
func (s *DefaultReminderScanner) Run(ctx context.Context, now time.Time) Report {
	logger := utils.GetLogger()
	var report Report

	meds, err := s.Meds.ListActive(ctx, now)
	if err != nil {
		logger.Error("Failed to load active medications", zap.Error(err))
		report.Errors = append(report.Errors, fmt.Sprintf("load medications: %v", err))
	}
	for _, med := range meds {
		report.Processed++
		created, err := s.processMedication(ctx, now, med)
		if err != nil {
			logger.Error("Medication reminder failed",
				zap.String("medicationId", med.ID), zap.Error(err))
			report.Errors = append(report.Errors, fmt.Sprintf("medication %s: %v", med.ID, err))
			continue
		}
		if created {
			report.Created++
		}
	}

	from := now.Add(s.lead() - s.window())
	to := now.Add(s.lead() + s.window())
	appts, err := s.Appts.ListBetween(ctx, from, to)
	if err != nil {
		logger.Error("Failed to load upcoming appointments", zap.Error(err))
		report.Errors = append(report.Errors, fmt.Sprintf("load appointments: %v", err))
	}
	for _, appt := range appts {
		report.Processed++
		created, err := s.processAppointment(ctx, now, appt)
		if err != nil {
			logger.Error("Appointment reminder failed",
				zap.String("appointmentId", appt.ID), zap.Error(err))
			report.Errors = append(report.Errors, fmt.Sprintf("appointment %s: %v", appt.ID, err))
			continue
		}
		if created {
			report.Created++
		}
	}

	return report
}

// processMedication applies the dedup gate and creates at most one reminder
// per cool-down for an active course. Firing cadence for medications comes
// from the cool-down, not the trigger window.
func (s *DefaultReminderScanner) processMedication(ctx context.Context, now time.Time, med models.Medication) (bool, error) {
	since := now.Add(-s.cooldown())
	dup, err := s.Notifs.AlreadyNotified(ctx, med.UserID, models.KindMedicationReminder, med.Name, since)
	if err != nil {
		return false, err
	}
	if dup {
		return false, nil
	}

	message := fmt.Sprintf("Time to take your %s", med.Name)
	if med.Dosage != "" {
		message = fmt.Sprintf("Time to take your %s (%s)", med.Name, med.Dosage)
	}
	_, err = s.Notifs.Create(ctx, models.Notification{
		UserID:    med.UserID,
		Type:      models.KindMedicationReminder,
		Title:     "Medication Reminder",
		Message:   message,
		ActionURL: "/medications",
		DedupKey:  med.ID,
	})
	if errors.Is(err, notificationRepo.ErrDuplicate) {
		// A concurrent scan won the insert; that is the gate working.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// processAppointment fires when now is inside the lead window around the
// appointment. The dedup constraint suppresses the repeat when the scheduled
// queue entry has already created the same reminder.
func (s *DefaultReminderScanner) processAppointment(ctx context.Context, now time.Time, appt models.Appointment) (bool, error) {
	if !ShouldTrigger(now, appt.ScheduledAt, s.lead(), s.window()) {
		return false, nil
	}

	_, err := s.Notifs.Create(ctx, models.Notification{
		UserID:    appt.UserID,
		Type:      models.KindAppointmentReminder,
		Title:     "Upcoming Appointment",
		Message:   appointmentReminderBody(appt),
		ActionURL: "/appointments/" + appt.ID,
		DedupKey:  appt.ID,
	})
	if errors.Is(err, notificationRepo.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func appointmentReminderBody(appt models.Appointment) string {
	body := fmt.Sprintf("%s is tomorrow at %s", appt.Title, appt.ScheduledAt.Format("15:04"))
	if appt.Location != "" {
		body += " (" + appt.Location + ")"
	}
	return body
}
