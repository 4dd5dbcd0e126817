package model

import "time"

// Reservation statuses as stored in the reservations.status enum.  A
// reservation only moves forward: PENDING -> CONFIRMED -> CONCLUDED.
// Rejection removes the row instead of introducing a terminal status so
// the slot is freed immediately.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusConcluded = "CONCLUDED"
)

// Reservation records a single room/shift booking for one calendar day.
// Multi-day requests produce one row per weekday, all sharing a SeriesID.
//
// Fields:
//  ID           – primary key identifier.
//  RoomID       – room being reserved.
//  RequesterID  – user who requested the booking.
//  StartsAt     – concrete start timestamp (UTC).
//  EndsAt       – concrete end timestamp (UTC).
//  Status       – lifecycle state (PENDING, CONFIRMED, CONCLUDED).
//  Note         – optional free-text note.
//  SubjectLabel – optional subject/discipline label shown on calendars.
//  SeriesID     – shared identifier for rows created from one multi-day
//                 request; nil for single-day bookings.
//  ClassID      – optional link to a class record.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Reservation struct {
	ID           uint64    // reservations.id
	RoomID       uint64    // reservations.room_id
	RequesterID  uint64    // reservations.requester_id
	StartsAt     time.Time // reservations.starts_at
	EndsAt       time.Time // reservations.ends_at
	Status       string    // reservations.status
	Note         *string   // reservations.note (nullable)
	SubjectLabel *string   // reservations.subject_label (nullable)
	SeriesID     *string   // reservations.series_id (nullable)
	ClassID      *uint64   // reservations.class_id (nullable)
	CreatedAt    time.Time // reservations.created_at
	UpdatedAt    time.Time // reservations.updated_at
}
