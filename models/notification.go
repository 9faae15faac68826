package models

import "time"

// Notification kinds form a closed set; each kind carries a fixed payload shape
// validated at the API boundary.
const (
	KindMedicationReminder  = "medication_reminder"
	KindAppointmentReminder = "appointment_reminder"
	KindAppointmentCreated  = "appointment_created"
	KindSystem              = "system"
)

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ActionURL string     `json:"actionUrl,omitempty"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	Sent      bool       `json:"sent"`
	DedupKey  string     `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ValidKind reports whether t is one of the recognized notification kinds.
func ValidKind(t string) bool {
	switch t {
	case KindMedicationReminder, KindAppointmentReminder, KindAppointmentCreated, KindSystem:
		return true
	}
	return false
}
