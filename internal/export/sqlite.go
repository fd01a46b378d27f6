package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/listenupapp/librarian/internal/domain"
)

const sqliteSchema = `
CREATE TABLE books (
	rowid  INTEGER PRIMARY KEY,
	id     TEXT NOT NULL DEFAULT '',
	title  TEXT NOT NULL,
	author TEXT NOT NULL,
	year   TEXT NOT NULL,
	genre  TEXT NOT NULL DEFAULT '',
	cover  TEXT
);
CREATE TABLE book_tags (
	book_rowid INTEGER NOT NULL REFERENCES books(rowid) ON DELETE CASCADE,
	tag        TEXT NOT NULL,
	position   INTEGER NOT NULL,
	PRIMARY KEY (book_rowid, position)
);
CREATE INDEX idx_book_tags_tag ON book_tags(tag);
`

// WriteSQLite writes books into a new SQLite database at path, replacing any
// existing file. All rows are inserted in one transaction.
func WriteSQLite(ctx context.Context, path string, books []*domain.Book) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	bookStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO books (id, title, author, year, genre, cover) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare book insert: %w", err)
	}
	defer bookStmt.Close()

	tagStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO book_tags (book_rowid, tag, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare tag insert: %w", err)
	}
	defer tagStmt.Close()

	for _, b := range books {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := bookStmt.ExecContext(ctx, b.ID, b.Title, b.Author, b.Year, b.Genre, b.Cover)
		if err != nil {
			return fmt.Errorf("insert book %q: %w", b.Title, err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("book rowid: %w", err)
		}

		for pos, tag := range b.Tags {
			if _, err := tagStmt.ExecContext(ctx, rowID, tag, pos); err != nil {
				return fmt.Errorf("insert tag %q: %w", tag, err)
			}
		}
	}

	return tx.Commit()
}
