package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/edulabs/lab-room-booking/internal/model"
)

// ReservationRepo provides persistence for reservations.  A multi-day
// booking request maps to several rows linked by a series id; every write
// that touches more than one row runs inside a caller-owned transaction.
// All timestamps are stored in UTC.
//
// Conflict detection is delegated to the database: the reservations table
// carries UNIQUE KEY (room_id, starts_at).  Shifts are fixed, disjoint
// windows, so two reservations overlap exactly when they share a room and
// a start timestamp, and the unique key is a full exclusion constraint.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062), which on this schema means a slot conflict.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// CreateBatchTx inserts all rows generated from one booking request as a
// single multi-row statement inside the provided transaction.  When the
// unique room/start key rejects any row the whole statement fails and the
// caller's rollback discards the entire series, so a mid-batch conflict
// never leaves a partial series behind.  Returns ErrSlotConflict on a
// duplicate-key violation.
func (r *ReservationRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, rows []model.Reservation) error {
	if len(rows) == 0 {
		return nil
	}
	query := `INSERT INTO reservations (room_id, requester_id, starts_at, ends_at, status, note, subject_label, series_id, class_id) VALUES `
	args := make([]interface{}, 0, len(rows)*9)
	for i, row := range rows {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, row.RoomID, row.RequesterID, row.StartsAt.UTC(), row.EndsAt.UTC(),
			row.Status, row.Note, row.SubjectLabel, row.SeriesID, row.ClassID)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return ErrSlotConflict
		}
		return err
	}
	return nil
}

// GetByID loads a single reservation row.  sql.ErrNoRows is returned when
// the id does not exist.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT id, room_id, requester_id, starts_at, ends_at, status, note, subject_label, series_id, class_id, created_at, updated_at
	           FROM reservations WHERE id = ?`
	return scanReservation(r.db.QueryRowContext(ctx, q, id))
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanReservation(row rowScanner) (model.Reservation, error) {
	var res model.Reservation
	var note, subject, seriesID sql.NullString
	var classID sql.NullInt64
	err := row.Scan(&res.ID, &res.RoomID, &res.RequesterID, &res.StartsAt, &res.EndsAt,
		&res.Status, &note, &subject, &seriesID, &classID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	if note.Valid {
		v := note.String
		res.Note = &v
	}
	if subject.Valid {
		v := subject.String
		res.SubjectLabel = &v
	}
	if seriesID.Valid {
		v := seriesID.String
		res.SeriesID = &v
	}
	if classID.Valid {
		v := uint64(classID.Int64)
		res.ClassID = &v
	}
	return res, nil
}

// MonthEntry is one calendar cell of the availability view: a reservation
// joined with its requester's name and subject label.  Shift is derived
// from the start hour by the handler, not stored.
type MonthEntry struct {
	ID            uint64    `json:"id"`
	RoomID        uint64    `json:"room_id"`
	RequesterID   uint64    `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	SubjectLabel  string    `json:"subject_label"`
	Status        string    `json:"status"`
	Shift         string    `json:"shift"`
	SeriesID      *string   `json:"series_id,omitempty"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
}

// SubjectPlaceholder substitutes a missing subject label in calendar
// views, matching what the booking screens display.
const SubjectPlaceholder = "Time Reservation"

// ListForMonth returns every reservation for the room whose start falls
// within the given calendar month (month is 1-12), ordered by start time.
// A room with no rows (or a nonexistent room id) yields an empty slice.
func (r *ReservationRepo) ListForMonth(ctx context.Context, roomID uint64, year int, month time.Month) ([]MonthEntry, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	const q = `SELECT r.id, r.room_id, r.requester_id, u.name, r.subject_label, r.status, r.series_id, r.starts_at, r.ends_at
	           FROM reservations r
	           JOIN users u ON u.id = r.requester_id
	           WHERE r.room_id = ? AND r.starts_at >= ? AND r.starts_at < ?
	           ORDER BY r.starts_at`
	rows, err := r.db.QueryContext(ctx, q, roomID, first, next)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]MonthEntry, 0)
	for rows.Next() {
		var e MonthEntry
		var subject, seriesID sql.NullString
		if err := rows.Scan(&e.ID, &e.RoomID, &e.RequesterID, &e.RequesterName,
			&subject, &e.Status, &seriesID, &e.StartsAt, &e.EndsAt); err != nil {
			return nil, err
		}
		if subject.Valid && subject.String != "" {
			e.SubjectLabel = subject.String
		} else {
			e.SubjectLabel = SubjectPlaceholder
		}
		if seriesID.Valid {
			v := seriesID.String
			e.SeriesID = &v
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// BookingDetail is a reservation joined with its room name, as listed on
// the requester's own bookings screen.
type BookingDetail struct {
	ID           uint64    `json:"id"`
	RoomID       uint64    `json:"room_id"`
	RoomName     string    `json:"room_name"`
	Status       string    `json:"status"`
	SubjectLabel *string   `json:"subject_label,omitempty"`
	Note         *string   `json:"note,omitempty"`
	SeriesID     *string   `json:"series_id,omitempty"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}

// ListByRequester returns all reservations created by the given user with
// room details, ordered by start time ascending.  Series grouping happens
// above this layer.
func (r *ReservationRepo) ListByRequester(ctx context.Context, requesterID uint64) ([]BookingDetail, error) {
	const q = `SELECT r.id, r.room_id, rm.name, r.status, r.subject_label, r.note, r.series_id, r.starts_at, r.ends_at
	           FROM reservations r
	           JOIN rooms rm ON rm.id = r.room_id
	           WHERE r.requester_id = ?
	           ORDER BY r.starts_at`
	rows, err := r.db.QueryContext(ctx, q, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookingDetails(rows)
}

// ListPendingReports returns confirmed reservations whose start time has
// passed, i.e. bookings awaiting a checklist.  requesterID of zero lists
// them for every requester (admin view).  Eligibility is purely this
// read-side filter; nothing is stored.
func (r *ReservationRepo) ListPendingReports(ctx context.Context, requesterID uint64, now time.Time) ([]BookingDetail, error) {
	q := `SELECT r.id, r.room_id, rm.name, r.status, r.subject_label, r.note, r.series_id, r.starts_at, r.ends_at
	      FROM reservations r
	      JOIN rooms rm ON rm.id = r.room_id
	      WHERE r.status = ? AND r.starts_at <= ?`
	args := []interface{}{model.StatusConfirmed, now.UTC()}
	if requesterID != 0 {
		q += ` AND r.requester_id = ?`
		args = append(args, requesterID)
	}
	q += ` ORDER BY r.starts_at`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookingDetails(rows)
}

func collectBookingDetails(rows *sql.Rows) ([]BookingDetail, error) {
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var subject, note, seriesID sql.NullString
		if err := rows.Scan(&d.ID, &d.RoomID, &d.RoomName, &d.Status,
			&subject, &note, &seriesID, &d.StartsAt, &d.EndsAt); err != nil {
			return nil, err
		}
		if subject.Valid {
			v := subject.String
			d.SubjectLabel = &v
		}
		if note.Valid {
			v := note.String
			d.Note = &v
		}
		if seriesID.Valid {
			v := seriesID.String
			d.SeriesID = &v
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// statusForUpdateTx locks a reservation row and returns its current
// status.  sql.ErrNoRows is passed through when the row does not exist.
func (r *ReservationRepo) statusForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (string, error) {
	const q = `SELECT status FROM reservations WHERE id = ? FOR UPDATE`
	var status string
	if err := tx.QueryRowContext(ctx, q, id).Scan(&status); err != nil {
		return "", err
	}
	return status, nil
}

// ApproveTx transitions a pending reservation to confirmed.  The current
// state is checked under a row lock first: approving a row that is not
// pending fails with ErrInvalidStateTransition instead of silently
// rewriting an already-decided booking.
func (r *ReservationRepo) ApproveTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	status, err := r.statusForUpdateTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if status != model.StatusPending {
		return ErrInvalidStateTransition
	}
	const q = `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, model.StatusConfirmed, id, model.StatusPending)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrInvalidStateTransition
	}
	return nil
}

// RejectTx removes a pending reservation entirely, freeing the slot
// immediately.  This hard delete is deliberate: a rejected row must not
// keep blocking the room/start unique key.  The audit trail lives in the
// published decision event, not the table.  Rejecting a row that is not
// pending fails with ErrInvalidStateTransition.
func (r *ReservationRepo) RejectTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	status, err := r.statusForUpdateTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if status != model.StatusPending {
		return ErrInvalidStateTransition
	}
	const q = `DELETE FROM reservations WHERE id = ?`
	_, err = tx.ExecContext(ctx, q, id)
	return err
}

// ConfirmedBySeriesTx locks and returns the confirmed members of a series
// so a checklist submission can conclude them atomically.  Members that
// are already concluded are left out (and untouched).
func (r *ReservationRepo) ConfirmedBySeriesTx(ctx context.Context, tx *sql.Tx, seriesID string) ([]model.Reservation, error) {
	const q = `SELECT id, room_id, requester_id, starts_at, ends_at, status, note, subject_label, series_id, class_id, created_at, updated_at
	           FROM reservations
	           WHERE series_id = ? AND status = ?
	           ORDER BY starts_at
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, seriesID, model.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

// GetForUpdateTx locks and returns a single reservation row.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	const q = `SELECT id, room_id, requester_id, starts_at, ends_at, status, note, subject_label, series_id, class_id, created_at, updated_at
	           FROM reservations WHERE id = ? FOR UPDATE`
	return scanReservation(tx.QueryRowContext(ctx, q, id))
}

// ConcludeTx moves a confirmed reservation to concluded.  Concluding a
// row in any other state fails with ErrInvalidStateTransition.
func (r *ReservationRepo) ConcludeTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, model.StatusConcluded, id, model.StatusConfirmed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidStateTransition
	}
	return nil
}
