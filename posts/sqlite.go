package posts

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteSource wraps a SQLite database holding the index and bodies.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens an existing database for reading. Only the import command
// writes to it.
func OpenSQLite(path string) (*SQLiteSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=5000;`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	return &SQLiteSource{db: db}, nil
}

// CreateSQLite opens (or creates) a writable database at path, ensures the
// data directory exists, and runs schema migrations.
func CreateSQLite(path string) (*SQLiteSource, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server keep reading while an import writes.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	s := &SQLiteSource{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func (s *SQLiteSource) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    summary TEXT NOT NULL,
    content TEXT,
    position INTEGER NOT NULL
);
`)
	return err
}

// LoadIndex returns all posts ordered by position.
func (s *SQLiteSource) LoadIndex(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, date, summary FROM posts ORDER BY position`)
	if err != nil {
		return nil, indexError(err)
	}
	defer rows.Close()

	var list []Post
	for rows.Next() {
		var p Post
		var id string
		if err := rows.Scan(&id, &p.Title, &p.Date, &p.Summary); err != nil {
			return nil, indexError(err)
		}
		p.ID = ID(id)
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, indexError(err)
	}
	list, err = validateIndex(list)
	if err != nil {
		return nil, indexError(err)
	}
	return list, nil
}

// LoadBody returns the stored content of one post. A NULL content column
// means the body was never imported.
func (s *SQLiteSource) LoadBody(ctx context.Context, id ID) (string, error) {
	var content sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT content FROM posts WHERE id = ?`, string(id)).Scan(&content)
	if err != nil {
		return "", bodyError(id, err)
	}
	if !content.Valid {
		return "", bodyError(id, errors.New("no body stored"))
	}
	return content.String, nil
}

// Replace swaps the stored posts for list in one transaction. Position
// follows slice order. Posts without content are stored with a NULL body.
func (s *SQLiteSource) Replace(ctx context.Context, list []Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO posts (id, title, date, summary, content, position) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range list {
		var content sql.NullString
		if p.Content != nil {
			content = sql.NullString{String: *p.Content, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, string(p.ID), p.Title, p.Date, p.Summary, content, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}
