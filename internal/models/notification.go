package models

import "time"

const (
	NotifyBookingReceived  = "booking_received"
	NotifyBookingConfirmed = "booking_confirmed"
)

// Notification is the payload handed to the outbound mail gateway. Field
// names mirror the gateway's template parameters.
type Notification struct {
	Type       string    `json:"type"`
	ToEmail    string    `json:"to_email"`
	ToName     string    `json:"to_name"`
	Service    string    `json:"service_name"`
	Start      time.Time `json:"booking_start"`
	End        time.Time `json:"booking_end"`
	SequenceID string    `json:"ref_id"`
	GroupID    string    `json:"group_id"`
	Sessions   int       `json:"sessions"`
}
