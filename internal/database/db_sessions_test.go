package database

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	db := newTestDB(t)
	mustInsertUser(t, db, "alice_liddell")

	sessionID, err := db.CreateUserSession("alice_liddell")
	if err != nil {
		t.Fatalf("CreateUserSession: %v", err)
	}
	if len(sessionID) != SessionIDLength {
		t.Errorf("session ID length = %d, want %d", len(sessionID), SessionIDLength)
	}

	s, err := db.ValidateUserSession(sessionID)
	if err != nil {
		t.Fatalf("ValidateUserSession: %v", err)
	}
	if s.Username != "alice_liddell" {
		t.Errorf("session username = %q", s.Username)
	}

	if err := db.DeleteSession(sessionID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := db.ValidateUserSession(sessionID); err == nil {
		t.Error("deleted session still validates")
	}
}

func TestValidateUserSession_Expired(t *testing.T) {
	db := newTestDB(t)
	mustInsertUser(t, db, "alice_liddell")

	// Insert a session row that expired an hour ago
	expired := time.Now().Add(-1 * time.Hour)
	_, err := db.GetMainDB().Exec(query_InsertSession,
		"deadbeef", "alice_liddell", expired.Add(-SessionTimeout), expired)
	if err != nil {
		t.Fatalf("insert expired session: %v", err)
	}

	if _, err := db.ValidateUserSession("deadbeef"); err == nil {
		t.Error("expired session still validates")
	}
}

func TestValidateUserSession_Empty(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.ValidateUserSession(""); err == nil {
		t.Error("empty session ID validated")
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := newTestDB(t)
	mustInsertUser(t, db, "alice_liddell")

	expired := time.Now().Add(-1 * time.Hour)
	if _, err := db.GetMainDB().Exec(query_InsertSession,
		"deadbeef", "alice_liddell", expired.Add(-SessionTimeout), expired); err != nil {
		t.Fatalf("insert expired session: %v", err)
	}
	live, err := db.CreateUserSession("alice_liddell")
	if err != nil {
		t.Fatalf("CreateUserSession: %v", err)
	}

	if err := db.CleanupExpiredSessions(); err != nil {
		t.Fatalf("CleanupExpiredSessions: %v", err)
	}

	var count int
	if err := db.GetMainDB().QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 1 {
		t.Errorf("session count after cleanup = %d, want 1", count)
	}
	if _, err := db.ValidateUserSession(live); err != nil {
		t.Errorf("live session removed by cleanup: %v", err)
	}
}

func TestGenerateSecureSessionID_Unique(t *testing.T) {
	a, err := GenerateSecureSessionID()
	if err != nil {
		t.Fatalf("GenerateSecureSessionID: %v", err)
	}
	b, err := GenerateSecureSessionID()
	if err != nil {
		t.Fatalf("GenerateSecureSessionID: %v", err)
	}
	if a == b {
		t.Error("two generated session IDs are identical")
	}
}
