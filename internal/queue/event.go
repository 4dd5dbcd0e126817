// Package queue defines message payloads exchanged over the message broker.
package queue

// Booking lifecycle actions carried by BookingEvent.
const (
	ActionCreated   = "created"
	ActionApproved  = "approved"
	ActionRejected  = "rejected"
	ActionConcluded = "concluded"
)

// BookingEvent is published on every booking lifecycle change.  Rejection
// deletes the reservation row, so for rejected bookings this event is the
// only durable trace left; the consumer appends it to the audit log.
type BookingEvent struct {
	Action       string   `json:"action"`
	Reservations []uint64 `json:"reservation_ids,omitempty"`
	SeriesID     string   `json:"series_id,omitempty"`
	RoomID       uint64   `json:"room_id"`
	RoomName     string   `json:"room_name"`
	RequesterID  uint64   `json:"requester_id"`
	Shift        string   `json:"shift,omitempty"`
	Status       string   `json:"status,omitempty"`
	FirstDay     string   `json:"first_day,omitempty"`
	LastDay      string   `json:"last_day,omitempty"`
	OccurredAt   string   `json:"occurred_at"`
}
