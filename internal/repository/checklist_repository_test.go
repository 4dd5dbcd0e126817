package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulabs/lab-room-booking/internal/model"
)

func TestUpsertCompletedTxInsertsWhenAbsent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewChecklistRepo(db)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM checklists WHERE reservation_id = ? LIMIT 1 FOR UPDATE")).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO checklists").
		WillReturnResult(sqlmock.NewResult(4, 1))

	cl := &model.Checklist{
		ReservationID: 11,
		MaterialOK:    true,
		CleanlinessOK: false,
		Items: []model.ChecklistItem{
			{EquipmentID: 1, Outcome: model.ItemOK},
			{EquipmentID: 2, Outcome: model.ItemDamaged, Reasons: []string{model.ReasonBroken}, Note: "projector lens cracked"},
		},
	}
	require.NoError(t, repo.UpsertCompletedTx(context.Background(), tx, cl))
	assert.EqualValues(t, 4, cl.ID)
	assert.Equal(t, model.ChecklistCompleted, cl.Status)
	assert.False(t, cl.RecordedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertCompletedTxCompletesOpenChecklist(t *testing.T) {
	db, mock := newMock(t)
	repo := NewChecklistRepo(db)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery("SELECT id FROM checklists").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec("UPDATE checklists SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cl := &model.Checklist{ReservationID: 11, MaterialOK: true, CleanlinessOK: true}
	require.NoError(t, repo.UpsertCompletedTx(context.Background(), tx, cl))
	assert.EqualValues(t, 9, cl.ID)
	assert.Equal(t, model.ChecklistCompleted, cl.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
