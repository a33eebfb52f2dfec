package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Tiliavir/pomo/internal/model"
	"github.com/Tiliavir/pomo/internal/timecalc"

	_ "modernc.org/sqlite"
)

// timestampLayout stores local wall-clock time without a zone suffix so
// that the leading ten characters are the calendar date the user saw.
const timestampLayout = "2006-01-02T15:04:05"

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrInvalidCategory   = errors.New("category name is required")
)

// BaseDir returns the root data directory (~/.pomo).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".pomo"), nil
}

// DefaultDBPath returns ~/.pomo/pomodoro.db.
func DefaultDBPath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "pomodoro.db"), nil
}

// Store is the SQLite-backed persistence for categories and sessions.
type Store struct {
	db     *sql.DB
	loc    *time.Location
	now    func() time.Time
	logger hclog.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithLocation sets the zone timestamps are written and read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithNow overrides the completion-time source used by InsertSession.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(l hclog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open opens (creating if needed) the database at path, ensures the schema
// and seeds the default categories.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating directories: %w", err)
	}
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db, loc: time.Local, now: time.Now, logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.seedCategories(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT UNIQUE NOT NULL,
  color TEXT NOT NULL DEFAULT '#3498db',
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  category_id INTEGER NOT NULL REFERENCES categories(id),
  description TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
  focus_rating INTEGER NOT NULL DEFAULT 3,
  started_at TEXT NOT NULL,
  completed_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_completed_at ON sessions(completed_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) seedCategories(ctx context.Context) error {
	created := s.format(s.now())
	for _, c := range model.DefaultCategories {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (name, color, created_at) VALUES (?, ?, ?)`,
			c.Name, c.Color, created,
		); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	return nil
}

// ListCategories returns all categories in creation order.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &created); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.CreatedAt = s.parse(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryByID resolves a single category.
func (s *Store) CategoryByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, color, created_at FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Color, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, fmt.Errorf("category %d: %w", id, ErrCategoryNotFound)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("load category %d: %w", id, err)
	}
	c.CreatedAt = s.parse(created)
	return c, nil
}

// AddCategory inserts a category and returns its id. An empty color falls
// back to model.DefaultColor.
func (s *Store) AddCategory(ctx context.Context, name, color string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrInvalidCategory
	}
	if strings.TrimSpace(color) == "" {
		color = model.DefaultColor
	}

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE name = ?`, name).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check category %q: %w", name, err)
	}
	if exists > 0 {
		return 0, fmt.Errorf("%q: %w", name, ErrDuplicateCategory)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, color, created_at) VALUES (?, ?, ?)`,
		name, color, s.format(s.now()),
	)
	if err != nil {
		return 0, fmt.Errorf("insert category %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category id: %w", err)
	}
	s.logger.Debug("category added", "id", id, "name", name, "color", color)
	return id, nil
}

// InsertSession stores a completed session and returns its id. The
// completion timestamp is the moment of the call.
func (s *Store) InsertSession(ctx context.Context, categoryID int64, note string, durationMinutes int, startedAt time.Time, focusRating int) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE id = ?`, categoryID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check category %d: %w", categoryID, err)
	}
	if exists == 0 {
		return 0, fmt.Errorf("category %d: %w", categoryID, ErrCategoryNotFound)
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO sessions (category_id, description, duration_minutes, focus_rating, started_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		categoryID, note, durationMinutes, focusRating, s.format(startedAt), s.format(s.now()),
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit session: %w", err)
	}
	return id, nil
}

const sessionColumns = `
SELECT s.id, s.category_id, c.name, c.color, s.description, s.duration_minutes,
       s.focus_rating, s.started_at, s.completed_at
FROM sessions s
JOIN categories c ON s.category_id = c.id
`

// SessionsCompletedOn returns the sessions completed on the calendar day of
// date, ordered by start time ascending.
func (s *Store) SessionsCompletedOn(ctx context.Context, date time.Time) ([]model.Session, error) {
	day := timecalc.DateKey(date.In(s.loc))
	return s.query(ctx, sessionColumns+`WHERE substr(s.completed_at, 1, 10) = ? ORDER BY s.started_at ASC, s.id ASC`, day)
}

// SessionsInRange returns the sessions whose completion date lies in
// [start, end] inclusive, newest completion first. A range whose end is
// before its start yields no sessions.
func (s *Store) SessionsInRange(ctx context.Context, start, end time.Time) ([]model.Session, error) {
	from := timecalc.DateKey(start.In(s.loc))
	to := timecalc.DateKey(end.In(s.loc))
	if to < from {
		return []model.Session{}, nil
	}
	return s.query(ctx, sessionColumns+`WHERE substr(s.completed_at, 1, 10) BETWEEN ? AND ? ORDER BY s.completed_at DESC, s.id DESC`, from, to)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]model.Session, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []model.Session{}
	for rows.Next() {
		var sess model.Session
		var started, completed string
		if err := rows.Scan(
			&sess.ID, &sess.CategoryID, &sess.CategoryName, &sess.CategoryColor,
			&sess.Note, &sess.DurationMinutes, &sess.FocusRating, &started, &completed,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt = s.parse(started)
		sess.CompletedAt = s.parse(completed)
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}
	return out, nil
}

func (s *Store) format(t time.Time) string {
	return t.In(s.loc).Format(timestampLayout)
}

// parse reads a stored timestamp. Rows written by other tools may carry
// fractional seconds or a space separator, so a few layouts are tried.
func (s *Store) parse(v string) time.Time {
	for _, layout := range []string{timestampLayout, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, v, s.loc); err == nil {
			return t
		}
	}
	s.logger.Warn("unparseable timestamp", "value", v)
	return time.Time{}
}
