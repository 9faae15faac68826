package models

import "time"

// PushSubscription is one registered browser push endpoint. A user may hold
// several (one per device); rows are unique on (user_id, endpoint).
type PushSubscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"createdAt"`
}
