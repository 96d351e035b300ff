package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite. Documents are stored as JSON
// with owner, name and timestamps broken out into indexed columns.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS patterns (
		id         TEXT PRIMARY KEY,
		owner      TEXT NOT NULL,
		name       TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (owner, name)
	);
	CREATE INDEX IF NOT EXISTS idx_patterns_owner ON patterns(owner, created_at);
	`)
	return err
}

func (s *SQLiteStore) Create(ctx context.Context, doc *Document) (*Document, error) {
	d := prepareNew(doc, time.Now().UTC())
	if err := d.Validate(); err != nil {
		return nil, err
	}
	d.ID = s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if taken, err := nameTaken(ctx, tx, d.Owner, d.Name, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, duplicateName(d.Owner, d.Name)
	}

	body, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode pattern: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO patterns (id, owner, name, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Owner, d.Name, string(body), formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert pattern: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Document, error) {
	return getDocument(ctx, s.db, id)
}

func (s *SQLiteStore) Update(ctx context.Context, doc *Document) (*Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	old, err := getDocument(ctx, tx, doc.ID)
	if err != nil {
		return nil, err
	}
	if taken, err := nameTaken(ctx, tx, doc.Owner, doc.Name, doc.ID); err != nil {
		return nil, err
	} else if taken {
		return nil, duplicateName(doc.Owner, doc.Name)
	}

	d := doc.Clone()
	d.CreatedAt = old.CreatedAt
	d.UpdatedAt = time.Now().UTC()
	if err := putDocument(ctx, tx, d); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) SaveVisualization(ctx context.Context, id, instructions string, image []byte) (*Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	d, err := getDocument(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	applyVisualization(d, instructions, image)
	d.UpdatedAt = time.Now().UTC()
	if err := putDocument(ctx, tx, d); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) List(ctx context.Context, owner string) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM patterns WHERE owner = ? ORDER BY created_at, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()

	out := []*Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM patterns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete pattern: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getDocument(ctx context.Context, q querier, id string) (*Document, error) {
	row := q.QueryRowContext(ctx, `SELECT id, body FROM patterns WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	return d, err
}

func putDocument(ctx context.Context, q querier, d *Document) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode pattern: %w", err)
	}
	_, err = q.ExecContext(ctx,
		`UPDATE patterns SET owner = ?, name = ?, body = ?, updated_at = ? WHERE id = ?`,
		d.Owner, d.Name, string(body), formatTime(d.UpdatedAt), d.ID)
	if err != nil {
		return fmt.Errorf("update pattern: %w", err)
	}
	return nil
}

func scanDocument(row scanner) (*Document, error) {
	var id, body string
	if err := row.Scan(&id, &body); err != nil {
		return nil, err
	}
	var d Document
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return nil, fmt.Errorf("decode pattern %s: %w", id, err)
	}
	d.ID = id
	return &d, nil
}

func nameTaken(ctx context.Context, q querier, owner, name, except string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM patterns WHERE owner = ? AND name = ? AND id != ?`,
		owner, name, except).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check pattern name: %w", err)
	}
	return n > 0, nil
}

// timeLayout is fixed-width so timestamp columns sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

var _ Store = (*SQLiteStore)(nil)
