package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"mindcare/internal/calendar"
	"mindcare/internal/domain"
	"mindcare/internal/records"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStateRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresStateRepository(db)
}

func sampleState() records.State {
	st := records.NewState(domain.Account{
		Name:  "Dr. João Silva",
		Email: "joao@mindcare.com",
		Plan:  domain.PlanPro,
	})
	st.Clients = []domain.Client{{
		ID:        "c1",
		Name:      "Ana Silva",
		Phone:     "(11) 99999-1111",
		BirthDate: calendar.NewDate(1996, time.March, 15),
		CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}}
	st.Forms = []domain.ClinicalForm{{ID: "f1", ClientID: "c1", Data: &domain.CBTWorksheet{Emocoes: "Ansiedade 80"}}}
	return st
}

func TestPostgresState_Load(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	raw, err := json.Marshal(sampleState())
	require.NoError(t, err)
	mock.ExpectQuery(`SELECT state FROM clinic_states`).
		WithArgs("joao@mindcare.com").
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow(raw))

	st, ok, err := repo.Load(context.Background(), " Joao@MindCare.com ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, st.Clients, 1)
	assert.Equal(t, "1996-03-15", st.Clients[0].BirthDate.String())
	require.Len(t, st.Forms, 1)
	assert.Equal(t, domain.FormCBTWorksheet, st.Forms[0].Type())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresState_LoadNotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT state FROM clinic_states`).
		WithArgs("nobody@mindcare.com").
		WillReturnError(sql.ErrNoRows)

	_, ok, err := repo.Load(context.Background(), "nobody@mindcare.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresState_LoadError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT state FROM clinic_states`).
		WithArgs("joao@mindcare.com").
		WillReturnError(errors.New("connection reset"))

	_, _, err := repo.Load(context.Background(), "joao@mindcare.com")
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresState_Save(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO clinic_states`).
		WithArgs("joao@mindcare.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), "joao@mindcare.com", sampleState()))
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Error(t, repo.Save(context.Background(), "  ", sampleState()))
}

func TestPostgresState_EnsureSchema(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS clinic_states`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryState_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStateRepository()

	_, ok, err := repo.Load(ctx, "joao@mindcare.com")
	require.NoError(t, err)
	assert.False(t, ok)

	st := sampleState()
	require.NoError(t, repo.Save(ctx, "joao@mindcare.com", st))
	st.Clients[0].Name = "changed after save"

	got, ok, err := repo.Load(ctx, "joao@mindcare.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ana Silva", got.Clients[0].Name)
}
