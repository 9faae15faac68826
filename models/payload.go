package models

// PushPayload is the JSON document delivered to the browser push service.
type PushPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	URL   string            `json:"url,omitempty"`
	Tag   string            `json:"tag,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// ReminderPayload is the task body for a scheduled (delayed) reminder.
type ReminderPayload struct {
	UserID        string `json:"userId"`
	AppointmentID string `json:"appointmentId"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	FireDate      string `json:"fireDate"`
}

// DeliveryPayload is the task body for delivering an already-persisted
// notification to the user's push endpoints.
type DeliveryPayload struct {
	NotificationID string `json:"notificationId"`
}
