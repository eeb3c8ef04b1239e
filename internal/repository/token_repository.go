package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrRefreshInvalid is returned when a refresh token hash is unknown,
// revoked or expired. Callers cannot tell the three apart on purpose.
var ErrRefreshInvalid = errors.New("refresh token invalid")

// TokenRepo persists and validates refresh tokens. Only the SHA-256 hash
// of a token is ever stored, and all expiry arithmetic runs on the
// database clock so validation does not depend on the server's.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a new TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh inserts a refresh token hash expiring ttl from now.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, ttl time.Duration) error {
	const q = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
	           VALUES (?, ?, UTC_TIMESTAMP() + INTERVAL ? SECOND)`
	_, err := r.db.ExecContext(ctx, q, userID, tokenHash, int64(ttl.Seconds()))
	return err
}

// ValidateRefresh returns the owning user id when a non-revoked,
// non-expired token with this hash exists; otherwise ErrRefreshInvalid.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	const q = `SELECT user_id FROM refresh_tokens
	           WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()
	           LIMIT 1`
	var userID uint64
	if err := r.db.QueryRowContext(ctx, q, tokenHash).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrRefreshInvalid
		}
		return 0, err
	}
	return userID, nil
}

// RevokeByHash marks a token as revoked. Unknown hashes are a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	const q = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
	           WHERE token_hash = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, tokenHash)
	return err
}

// RevokeAllForUser revokes every active token of one user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	const q = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
	           WHERE user_id = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}
