package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-while/go-pressleaf/internal/models"
)

// --- User Queries ---

const query_InsertUser = `INSERT INTO users (name, username, email, password_hash) VALUES (?, ?, ?, ?)`

func (db *Database) InsertUser(u *models.User) error {
	_, err := retryableExec(db.mainDB, query_InsertUser,
		u.Name, u.Username, u.Email, u.PasswordHash,
	)
	return err
}

// IsUniqueConstraintError reports whether err is a UNIQUE constraint
// violation, e.g. a duplicate username at registration time.
func IsUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const query_GetUserByUsername = `SELECT id, name, username, email, password_hash, created_at FROM users WHERE username = ?`

func (db *Database) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(db.mainDB, query_GetUserByUsername, []interface{}{username},
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const query_GetUserByID = `SELECT id, name, username, email, password_hash, created_at FROM users WHERE id = ?`

func (db *Database) GetUserByID(id int64) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(db.mainDB, query_GetUserByID, []interface{}{id},
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const query_GetAllUsers = `SELECT id, name, username, email, password_hash, created_at FROM users ORDER BY id`

func (db *Database) GetAllUsers() ([]*models.User, error) {
	rows, err := retryableQuery(db.mainDB, query_GetAllUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// UpdateUserPassword updates a user's password hash
const query_UpdateUserPassword = `UPDATE users SET password_hash = ? WHERE username = ?`

func (db *Database) UpdateUserPassword(username string, passwordHash string) error {
	_, err := retryableExec(db.mainDB, query_UpdateUserPassword, passwordHash, username)
	return err
}

// DeleteUserByUsername removes a user row. Only the usermgr tool calls this,
// the web surface never deletes users.
const query_DeleteUserByUsername = `DELETE FROM users WHERE username = ?`

func (db *Database) DeleteUserByUsername(username string) error {
	result, err := retryableExec(db.mainDB, query_DeleteUserByUsername, username)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Article Queries ---

const query_InsertArticle = `INSERT INTO articles (title, author, content) VALUES (?, ?, ?)`

func (db *Database) InsertArticle(a *models.Article) error {
	result, err := retryableExec(db.mainDB, query_InsertArticle, a.Title, a.Author, a.Content)
	if err != nil {
		return err
	}
	if id, err := result.LastInsertId(); err == nil {
		a.ID = id
	}
	return nil
}

const query_GetAllArticles = `SELECT id, title, author, content, created_at FROM articles ORDER BY id`

func (db *Database) GetAllArticles() ([]*models.Article, error) {
	rows, err := retryableQuery(db.mainDB, query_GetAllArticles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

const query_GetArticlesByAuthor = `SELECT id, title, author, content, created_at FROM articles WHERE author = ? ORDER BY id`

func (db *Database) GetArticlesByAuthor(username string) ([]*models.Article, error) {
	rows, err := retryableQuery(db.mainDB, query_GetArticlesByAuthor, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

const query_GetArticleByID = `SELECT id, title, author, content, created_at FROM articles WHERE id = ?`

func (db *Database) GetArticleByID(id int64) (*models.Article, error) {
	var a models.Article
	err := retryableQueryRowScan(db.mainDB, query_GetArticleByID, []interface{}{id},
		&a.ID, &a.Title, &a.Author, &a.Content, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetArticleByIDAndAuthor is the ownership lookup used to prefill the edit
// form. Mutations themselves go through the conditional UpdateArticle and
// DeleteArticle statements below.
const query_GetArticleByIDAndAuthor = `SELECT id, title, author, content, created_at FROM articles WHERE id = ? AND author = ?`

func (db *Database) GetArticleByIDAndAuthor(id int64, author string) (*models.Article, error) {
	var a models.Article
	err := retryableQueryRowScan(db.mainDB, query_GetArticleByIDAndAuthor, []interface{}{id, author},
		&a.ID, &a.Title, &a.Author, &a.Content, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateArticle mutates title and content in one conditional statement.
// The author filter makes the ownership check and the write a single
// atomic operation; a zero affected-row count means no such article or
// not the owner.
const query_UpdateArticle = `UPDATE articles SET title = ?, content = ? WHERE id = ? AND author = ?`

func (db *Database) UpdateArticle(id int64, title, content, author string) (bool, error) {
	result, err := retryableExec(db.mainDB, query_UpdateArticle, title, content, id, author)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteArticle removes an article under the same conditional ownership
// contract as UpdateArticle.
const query_DeleteArticle = `DELETE FROM articles WHERE id = ? AND author = ?`

func (db *Database) DeleteArticle(id int64, author string) (bool, error) {
	result, err := retryableExec(db.mainDB, query_DeleteArticle, id, author)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// IsNotFound reports whether err means "no row", the NotFound-like outcome
// that degrades to an empty view instead of a hard failure.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func scanArticles(rows *sql.Rows) ([]*models.Article, error) {
	var out []*models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Author, &a.Content, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
