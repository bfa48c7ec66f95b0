package database

import (
	"testing"

	"github.com/go-while/go-pressleaf/internal/models"
)

// newTestDB opens a fresh database in a temp dir and runs migrations
func newTestDB(t *testing.T) *Database {
	t.Helper()
	cfg := DefaultDBConfig()
	cfg.DataDir = t.TempDir()
	db, err := OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Shutdown(); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	})
	return db
}

func mustInsertUser(t *testing.T, db *Database, username string) {
	t.Helper()
	err := db.InsertUser(&models.User{
		Name:         "Test " + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
	})
	if err != nil {
		t.Fatalf("InsertUser(%s): %v", username, err)
	}
}

func mustInsertArticle(t *testing.T, db *Database, title, author, content string) *models.Article {
	t.Helper()
	a := &models.Article{Title: title, Author: author, Content: content}
	if err := db.InsertArticle(a); err != nil {
		t.Fatalf("InsertArticle: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("InsertArticle did not set the article ID")
	}
	return a
}

func TestInsertUser_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	mustInsertUser(t, db, "alice_liddell")

	err := db.InsertUser(&models.User{
		Name:         "Another Alice",
		Username:     "alice_liddell",
		Email:        "other@example.com",
		PasswordHash: "x",
	})
	if err == nil {
		t.Fatal("expected error inserting duplicate username")
	}
	if !IsUniqueConstraintError(err) {
		t.Errorf("expected unique constraint error, got: %v", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	db := newTestDB(t)
	mustInsertUser(t, db, "alice_liddell")

	u, err := db.GetUserByUsername("alice_liddell")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u.Email != "alice_liddell@example.com" {
		t.Errorf("email = %q, want alice_liddell@example.com", u.Email)
	}

	_, err = db.GetUserByUsername("nobody")
	if err == nil {
		t.Fatal("expected error for unknown username")
	}
	if !IsNotFound(err) {
		t.Errorf("expected not-found error, got: %v", err)
	}
}

func TestArticleRoundTrip(t *testing.T) {
	db := newTestDB(t)
	mustInsertUser(t, db, "alice_liddell")

	created := mustInsertArticle(t, db, "Hello World!", "alice_liddell", "This is my first post.")

	got, err := db.GetArticleByID(created.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if got.Title != "Hello World!" || got.Content != "This is my first post." || got.Author != "alice_liddell" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestGetArticleByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetArticleByID(9999)
	if !IsNotFound(err) {
		t.Errorf("expected not-found error, got: %v", err)
	}
}

func TestGetArticlesByAuthor_SubsetOfAll(t *testing.T) {
	db := newTestDB(t)
	mustInsertUser(t, db, "alice_liddell")
	mustInsertUser(t, db, "bob_wilson")

	mustInsertArticle(t, db, "Alice One", "alice_liddell", "content goes here")
	mustInsertArticle(t, db, "Bob One", "bob_wilson", "content goes here")
	mustInsertArticle(t, db, "Alice Two", "alice_liddell", "content goes here")

	all, err := db.GetAllArticles()
	if err != nil {
		t.Fatalf("GetAllArticles: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}

	byAlice, err := db.GetArticlesByAuthor("alice_liddell")
	if err != nil {
		t.Fatalf("GetArticlesByAuthor: %v", err)
	}

	// Exactly the subset of all articles whose author matches, same order
	var want []int64
	for _, a := range all {
		if a.Author == "alice_liddell" {
			want = append(want, a.ID)
		}
	}
	if len(byAlice) != len(want) {
		t.Fatalf("len(byAlice) = %d, want %d", len(byAlice), len(want))
	}
	for i, a := range byAlice {
		if a.ID != want[i] {
			t.Errorf("byAlice[%d].ID = %d, want %d", i, a.ID, want[i])
		}
		if a.Author != "alice_liddell" {
			t.Errorf("byAlice[%d].Author = %q", i, a.Author)
		}
	}
}

func TestUpdateArticle_OwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	mustInsertUser(t, db, "alice_liddell")
	mustInsertUser(t, db, "bob_wilson")
	a := mustInsertArticle(t, db, "Original Title", "alice_liddell", "original content")

	// Non-owner must not change the row
	updated, err := db.UpdateArticle(a.ID, "Hacked Title", "hacked content", "bob_wilson")
	if err != nil {
		t.Fatalf("UpdateArticle: %v", err)
	}
	if updated {
		t.Error("non-owner update reported success")
	}
	got, _ := db.GetArticleByID(a.ID)
	if got.Title != "Original Title" {
		t.Errorf("row changed by non-owner: %+v", got)
	}

	// Owner update succeeds
	updated, err = db.UpdateArticle(a.ID, "New Title", "new content here", "alice_liddell")
	if err != nil {
		t.Fatalf("UpdateArticle: %v", err)
	}
	if !updated {
		t.Error("owner update reported failure")
	}
	got, _ = db.GetArticleByID(a.ID)
	if got.Title != "New Title" || got.Content != "new content here" {
		t.Errorf("owner update not applied: %+v", got)
	}
}

func TestDeleteArticle_OwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	mustInsertUser(t, db, "alice_liddell")
	mustInsertUser(t, db, "bob_wilson")
	a := mustInsertArticle(t, db, "Keep Me Around", "alice_liddell", "some content here")

	deleted, err := db.DeleteArticle(a.ID, "bob_wilson")
	if err != nil {
		t.Fatalf("DeleteArticle: %v", err)
	}
	if deleted {
		t.Error("non-owner delete reported success")
	}
	if _, err := db.GetArticleByID(a.ID); err != nil {
		t.Errorf("article gone after non-owner delete: %v", err)
	}

	deleted, err = db.DeleteArticle(a.ID, "alice_liddell")
	if err != nil {
		t.Fatalf("DeleteArticle: %v", err)
	}
	if !deleted {
		t.Error("owner delete reported failure")
	}
	if _, err := db.GetArticleByID(a.ID); !IsNotFound(err) {
		t.Errorf("expected not-found after delete, got: %v", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	// Running migrations again on an initialized database must be a no-op
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}
