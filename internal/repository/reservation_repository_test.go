package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulabs/lab-room-booking/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func beginTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	return tx
}

func seriesRows(res ...model.Reservation) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "room_id", "requester_id", "starts_at", "ends_at", "status",
		"note", "subject_label", "series_id", "class_id", "created_at", "updated_at",
	})
	for _, r := range res {
		rows.AddRow(r.ID, r.RoomID, r.RequesterID, r.StartsAt, r.EndsAt, r.Status,
			r.Note, r.SubjectLabel, r.SeriesID, r.ClassID, r.CreatedAt, r.UpdatedAt)
	}
	return rows
}

func TestCreateBatchTxInsertsAllRowsAtOnce(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, mock)

	sid := "3f0c2a9e-0000-0000-0000-000000000001"
	day := time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC)
	rows := []model.Reservation{
		{RoomID: 7, RequesterID: 3, StartsAt: day, EndsAt: day.Add(5 * time.Hour), Status: model.StatusPending, SeriesID: &sid},
		{RoomID: 7, RequesterID: 3, StartsAt: day.AddDate(0, 0, 1), EndsAt: day.AddDate(0, 0, 1).Add(5 * time.Hour), Status: model.StatusPending, SeriesID: &sid},
	}

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO reservations (room_id, requester_id, starts_at, ends_at, status, note, subject_label, series_id, class_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?),(?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)).WillReturnResult(sqlmock.NewResult(10, 2))

	require.NoError(t, repo.CreateBatchTx(context.Background(), tx, rows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchTxTranslatesDuplicateKey(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, mock)

	day := time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC)
	rows := []model.Reservation{
		{RoomID: 7, RequesterID: 3, StartsAt: day, EndsAt: day.Add(5 * time.Hour), Status: model.StatusConfirmed},
	}

	mock.ExpectExec("INSERT INTO reservations").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '7-2025-01-06 07:00:00' for key 'uniq_room_start'"))
	mock.ExpectRollback()

	err := repo.CreateBatchTx(context.Background(), tx, rows)
	assert.ErrorIs(t, err, ErrSlotConflict)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchTxEmptyIsNoop(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, mock)
	require.NoError(t, repo.CreateBatchTx(context.Background(), tx, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveTx(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr error
	}{
		{name: "pending row is confirmed", status: model.StatusPending},
		{name: "confirmed row rejects transition", status: model.StatusConfirmed, wantErr: ErrInvalidStateTransition},
		{name: "concluded row rejects transition", status: model.StatusConcluded, wantErr: ErrInvalidStateTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewReservationRepo(db)
			tx := beginTx(t, db, mock)

			mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM reservations WHERE id = ? FOR UPDATE")).
				WithArgs(uint64(42)).
				WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(tt.status))
			if tt.wantErr == nil {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = ? WHERE id = ? AND status = ?")).
					WithArgs(model.StatusConfirmed, uint64(42), model.StatusPending).
					WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.ApproveTx(context.Background(), tx, 42)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestApproveTxMissingRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery("SELECT status FROM reservations").
		WithArgs(uint64(9)).
		WillReturnError(sql.ErrNoRows)

	err := repo.ApproveTx(context.Background(), tx, 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRejectTxDeletesPendingRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery("SELECT status FROM reservations").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.StatusPending))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reservations WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RejectTx(context.Background(), tx, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectTxRefusesNonPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery("SELECT status FROM reservations").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.StatusConcluded))

	err := repo.RejectTx(context.Background(), tx, 5)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcludeTxRequiresConfirmed(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, mock)

	// Conditional update touches zero rows when the status already moved.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = ? WHERE id = ? AND status = ?")).
		WithArgs(model.StatusConcluded, uint64(3), model.StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ConcludeTx(context.Background(), tx, 3)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestConfirmedBySeriesTxListsOnlyConfirmedMembers(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, mock)

	sid := "ab"
	day := time.Date(2025, 2, 3, 13, 0, 0, 0, time.UTC)
	confirmed := model.Reservation{
		ID: 1, RoomID: 2, RequesterID: 3, StartsAt: day, EndsAt: day.Add(5 * time.Hour),
		Status: model.StatusConfirmed, SeriesID: &sid,
		CreatedAt: day, UpdatedAt: day,
	}
	mock.ExpectQuery("SELECT (.+) FROM reservations").
		WithArgs(sid, model.StatusConfirmed).
		WillReturnRows(seriesRows(confirmed))

	members, err := repo.ConfirmedBySeriesTx(context.Background(), tx, sid)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, model.StatusConfirmed, members[0].Status)
	require.NotNil(t, members[0].SeriesID)
	assert.Equal(t, sid, *members[0].SeriesID)
}

func TestListForMonthSubstitutesSubjectPlaceholder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReservationRepo(db)

	start := time.Date(2025, 3, 4, 7, 0, 0, 0, time.UTC)
	cols := []string{"id", "room_id", "requester_id", "name", "subject_label", "status", "series_id", "starts_at", "ends_at"}
	mock.ExpectQuery("SELECT (.+) FROM reservations r").
		WithArgs(uint64(7), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 7, 3, "Ana", nil, model.StatusPending, nil, start, start.Add(5*time.Hour)).
			AddRow(2, 7, 4, "Rui", "Chemistry II", model.StatusConfirmed, nil, start.AddDate(0, 0, 1), start.AddDate(0, 0, 1).Add(5*time.Hour)))

	entries, err := repo.ListForMonth(context.Background(), 7, 2025, time.March)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, SubjectPlaceholder, entries[0].SubjectLabel)
	assert.Equal(t, "Chemistry II", entries[1].SubjectLabel)
}
