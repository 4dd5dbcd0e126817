package repository

import (
	"context"
	"database/sql"

	"github.com/edulabs/lab-room-booking/internal/model"
)

// RoomRepo reads room master data.  Rooms are managed elsewhere; the
// booking core only needs names for views and events.
type RoomRepo struct{ DB *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

// GetByID fetches a room by id.  sql.ErrNoRows is returned when absent.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	const q = `SELECT id, unit_id, name, capacity, is_active, created_at, updated_at
	           FROM rooms WHERE id = ? LIMIT 1`
	var rm model.Room
	err := r.DB.QueryRowContext(ctx, q, id).Scan(
		&rm.ID, &rm.UnitID, &rm.Name, &rm.Capacity, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return model.Room{}, err
	}
	return rm, nil
}
