package db

import (
	"database/sql"
	"time"
)

// Reset tokens are valid for one hour from issue.
const resetTokenTTL = time.Hour

// StoreResetToken saves a password reset token for the email, replacing any
// previous token for the same address.
func StoreResetToken(email, token string) error {
	_, err := DB.Exec(`
		INSERT INTO password_resets (email, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`,
		email, token, time.Now().UTC().Add(resetTokenTTL),
	)
	return err
}

// VerifyResetToken reports whether the token matches the one stored for the
// email and has not expired.
func VerifyResetToken(email, token string) (bool, error) {
	var stored string
	var expiresAt time.Time

	err := DB.QueryRow(
		`SELECT token, expires_at FROM password_resets WHERE email = $1`,
		email,
	).Scan(&stored, &expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return stored == token && time.Now().UTC().Before(expiresAt), nil
}

// ClearResetToken removes the reset token after use
func ClearResetToken(email string) error {
	_, err := DB.Exec(`DELETE FROM password_resets WHERE email = $1`, email)
	return err
}
