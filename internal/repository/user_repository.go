package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/edulabs/lab-room-booking/internal/model"
)

// UserRepo resolves requesters and their profile capabilities.  The
// booking core consumes users read-only: rows are provisioned by the
// identity system.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Requester is a user joined with the admin flag of its profile.  It is
// the single authorization view consumed by every write path, so the
// "is this user an admin" question is answered in exactly one place.
type Requester struct {
	model.User
	IsAdmin bool
}

// GetByExternalID resolves an identity-provider subject to a requester.
// Returns ErrRequesterNotFound when no mapping exists.
func (r *UserRepo) GetByExternalID(ctx context.Context, externalID string) (Requester, error) {
	externalID = strings.TrimSpace(externalID)
	const q = `SELECT u.id, u.external_id, u.name, u.email, u.profile_id, u.is_active, u.created_at, u.updated_at, p.is_admin
	           FROM users u
	           JOIN profiles p ON p.id = u.profile_id
	           WHERE u.external_id = ? LIMIT 1`
	var req Requester
	err := r.DB.QueryRowContext(ctx, q, externalID).Scan(
		&req.ID, &req.ExternalID, &req.Name, &req.Email, &req.ProfileID,
		&req.IsActive, &req.CreatedAt, &req.UpdatedAt, &req.IsAdmin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Requester{}, ErrRequesterNotFound
	}
	if err != nil {
		return Requester{}, err
	}
	return req, nil
}

// GetByID fetches a requester by primary key, including the admin flag.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (Requester, error) {
	const q = `SELECT u.id, u.external_id, u.name, u.email, u.profile_id, u.is_active, u.created_at, u.updated_at, p.is_admin
	           FROM users u
	           JOIN profiles p ON p.id = u.profile_id
	           WHERE u.id = ? LIMIT 1`
	var req Requester
	err := r.DB.QueryRowContext(ctx, q, id).Scan(
		&req.ID, &req.ExternalID, &req.Name, &req.Email, &req.ProfileID,
		&req.IsActive, &req.CreatedAt, &req.UpdatedAt, &req.IsAdmin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Requester{}, ErrRequesterNotFound
	}
	if err != nil {
		return Requester{}, err
	}
	return req, nil
}
