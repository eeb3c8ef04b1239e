package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepoStoreRefreshUsesTTL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT INTO refresh_tokens \(user_id, token_hash, expires_at\).+UTC_TIMESTAMP\(\) \+ INTERVAL \? SECOND`).
		WithArgs(7, "abc123", int64(7*24*3600)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewTokenRepo(db)
	require.NoError(t, repo.StoreRefresh(context.Background(), 7, "abc123", 7*24*time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoValidateRefresh(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT user_id FROM refresh_tokens.+revoked_at IS NULL AND expires_at > UTC_TIMESTAMP\(\)`).
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

	repo := NewTokenRepo(db)
	uid, err := repo.ValidateRefresh(context.Background(), "abc123")
	require.NoError(t, err)
	assert.EqualValues(t, 7, uid)
}

func TestTokenRepoValidateRefreshInvalid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id FROM refresh_tokens`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	repo := NewTokenRepo(db)
	_, err = repo.ValidateRefresh(context.Background(), "revoked-or-expired")
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}
