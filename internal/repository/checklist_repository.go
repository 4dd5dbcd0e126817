package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/edulabs/lab-room-booking/internal/model"
)

// ChecklistRepo persists post-use inspection records.  A checklist row is
// keyed by its reservation and cascade-deletes with it.
type ChecklistRepo struct{ DB *sql.DB }

func NewChecklistRepo(db *sql.DB) *ChecklistRepo { return &ChecklistRepo{DB: db} }

// UpsertCompletedTx records a completed checklist for a reservation inside
// the caller's transaction.  When a prior open checklist exists its row is
// updated to COMPLETED; otherwise a new completed row is inserted.  Item
// outcomes are stored as JSON.
func (r *ChecklistRepo) UpsertCompletedTx(ctx context.Context, tx *sql.Tx, cl *model.Checklist) error {
	items, err := json.Marshal(cl.Items)
	if err != nil {
		return err
	}
	recordedAt := cl.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	const sel = `SELECT id FROM checklists WHERE reservation_id = ? LIMIT 1 FOR UPDATE`
	var existingID uint64
	err = tx.QueryRowContext(ctx, sel, cl.ReservationID).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		const ins = `INSERT INTO checklists (reservation_id, status, material_ok, cleanliness_ok, note, subject_label, items, recorded_at)
		             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, ins, cl.ReservationID, model.ChecklistCompleted,
			cl.MaterialOK, cl.CleanlinessOK, cl.Note, cl.SubjectLabel, items, recordedAt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		cl.ID = uint64(id)
	case err != nil:
		return err
	default:
		const upd = `UPDATE checklists SET status = ?, material_ok = ?, cleanliness_ok = ?, note = ?, subject_label = ?, items = ?, recorded_at = ?
		             WHERE id = ?`
		if _, err := tx.ExecContext(ctx, upd, model.ChecklistCompleted,
			cl.MaterialOK, cl.CleanlinessOK, cl.Note, cl.SubjectLabel, items, recordedAt, existingID); err != nil {
			return err
		}
		cl.ID = existingID
	}
	cl.Status = model.ChecklistCompleted
	cl.RecordedAt = recordedAt
	return nil
}

// GetByReservation loads the checklist recorded for a reservation, if any.
func (r *ChecklistRepo) GetByReservation(ctx context.Context, reservationID uint64) (model.Checklist, error) {
	const q = `SELECT id, reservation_id, status, material_ok, cleanliness_ok, note, subject_label, items, recorded_at
	           FROM checklists WHERE reservation_id = ? LIMIT 1`
	var cl model.Checklist
	var note, subject sql.NullString
	var items []byte
	err := r.DB.QueryRowContext(ctx, q, reservationID).Scan(
		&cl.ID, &cl.ReservationID, &cl.Status, &cl.MaterialOK, &cl.CleanlinessOK,
		&note, &subject, &items, &cl.RecordedAt)
	if err != nil {
		return model.Checklist{}, err
	}
	if note.Valid {
		v := note.String
		cl.Note = &v
	}
	if subject.Valid {
		v := subject.String
		cl.SubjectLabel = &v
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &cl.Items); err != nil {
			return model.Checklist{}, err
		}
	}
	return cl, nil
}
