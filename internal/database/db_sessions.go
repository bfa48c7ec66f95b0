package database

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/go-while/go-pressleaf/internal/models"
)

// Session security constants
const (
	SessionIDLength = 64            // 64 character session ID
	SessionTimeout  = 3 * time.Hour // 3 hour sliding timeout
)

// GenerateSecureSessionID creates a cryptographically secure session ID
func GenerateSecureSessionID() (string, error) {
	bytes := make([]byte, SessionIDLength/2) // hex encoding doubles the length
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure session ID: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

const query_InsertSession = `INSERT INTO sessions (id, username, created_at, expires_at) VALUES (?, ?, ?, ?)`

// CreateUserSession creates a new session row for the user and returns its ID
func (db *Database) CreateUserSession(username string) (string, error) {
	sessionID, err := GenerateSecureSessionID()
	if err != nil {
		return "", err
	}

	now := time.Now()
	_, err = retryableExec(db.mainDB, query_InsertSession,
		sessionID, username, now, now.Add(SessionTimeout))
	if err != nil {
		return "", fmt.Errorf("failed to create user session: %w", err)
	}

	return sessionID, nil
}

const query_GetSession = `SELECT id, username, created_at, expires_at FROM sessions WHERE id = ? AND expires_at > ?`

// ValidateUserSession checks if the session is valid and extends expiration
func (db *Database) ValidateUserSession(sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("empty session ID")
	}

	var s models.Session
	err := retryableQueryRowScan(db.mainDB, query_GetSession, []interface{}{sessionID, time.Now()},
		&s.ID, &s.Username, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired session")
	}

	// Extend session expiration (sliding timeout)
	newExpiresAt := time.Now().Add(SessionTimeout)
	updateQuery := `UPDATE sessions SET expires_at = ? WHERE id = ?`
	if _, err = retryableExec(db.mainDB, updateQuery, newExpiresAt, s.ID); err != nil {
		// Log error but don't fail validation
		log.Printf("Warning: Failed to extend session expiration: %v", err)
	} else {
		s.ExpiresAt = newExpiresAt
	}

	return &s, nil
}

const query_DeleteSession = `DELETE FROM sessions WHERE id = ?`

// DeleteSession removes the session row (logout)
func (db *Database) DeleteSession(sessionID string) error {
	_, err := retryableExec(db.mainDB, query_DeleteSession, sessionID)
	return err
}

const query_DeleteSessionsByUsername = `DELETE FROM sessions WHERE username = ?`

// DeleteSessionsByUsername clears all sessions of one user. Used by the
// usermgr tool when a user is deleted or their password is reset.
func (db *Database) DeleteSessionsByUsername(username string) error {
	_, err := retryableExec(db.mainDB, query_DeleteSessionsByUsername, username)
	return err
}

const query_CleanupExpiredSessions = `DELETE FROM sessions WHERE expires_at <= ?`

// CleanupExpiredSessions removes all expired session rows
func (db *Database) CleanupExpiredSessions() error {
	_, err := retryableExec(db.mainDB, query_CleanupExpiredSessions, time.Now())
	return err
}
