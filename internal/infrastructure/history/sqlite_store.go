package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/pkg/filesystem"
	"github.com/doeshing/ronde/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS probes (
	name TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	last_notified_at TEXT
);
CREATE TABLE IF NOT EXISTS entries (
	probe TEXT NOT NULL,
	seq INTEGER NOT NULL,
	timestamp TEXT NOT NULL,
	tag_kind TEXT NOT NULL,
	tag_value INTEGER NOT NULL,
	command TEXT NOT NULL,
	kind TEXT NOT NULL,
	exit_code INTEGER NOT NULL DEFAULT 0,
	stdout TEXT NOT NULL DEFAULT '',
	stderr TEXT NOT NULL DEFAULT '',
	timeout INTEGER NOT NULL DEFAULT 0,
	message TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (probe, seq)
);`

// SQLiteStore persists history in a SQLite database. Every Save replaces the
// stored history in a single transaction.
type SQLiteStore struct {
	path string
	uid  *uint32
	gid  *uint32
}

// NewSQLiteStore creates a store backed by the database at path.
func NewSQLiteStore(path string, uid, gid *uint32) *SQLiteStore {
	return &SQLiteStore{path: path, uid: uid, gid: gid}
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}
	return db, nil
}

// openExisting opens a database file that is known to exist. I/O problems
// are returned as they are; only a file SQLite cannot use as a history
// database is reported as ErrHistoryCorrupt.
func (s *SQLiteStore) openExisting(ctx context.Context, info fs.FileInfo) (*sql.DB, error) {
	if info.IsDir() {
		return nil, fmt.Errorf("open history %s: is a directory", s.path)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", s.path, err)
	}
	_ = f.Close()

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", s.path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrHistoryCorrupt, s.path, err)
	}
	return db, nil
}

// Load implements ports.HistoryRepository.
func (s *SQLiteStore) Load(ctx context.Context) (*domain.History, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewHistory(), nil
		}
		return nil, fmt.Errorf("stat history %s: %w", s.path, err)
	}
	db, err := s.openExisting(ctx, info)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	history := domain.NewHistory()
	rows, err := db.QueryContext(ctx, "SELECT name, last_notified_at FROM probes ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHistoryCorrupt, err)
	}
	for rows.Next() {
		var name string
		var notified sql.NullString
		if err := rows.Scan(&name, &notified); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %v", domain.ErrHistoryCorrupt, err)
		}
		probe := domain.ProbeHistory{Name: name}
		if notified.Valid {
			at, err := time.Parse(time.RFC3339Nano, notified.String)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("%w: probe %q: %v", domain.ErrHistoryCorrupt, name, err)
			}
			probe.LastNotifiedAt = &at
		}
		history.Probes = append(history.Probes, probe)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrHistoryCorrupt, err)
	}
	rows.Close()

	for i := range history.Probes {
		entries, err := loadEntries(ctx, db, history.Probes[i].Name)
		if err != nil {
			return nil, err
		}
		history.Probes[i].Entries = entries
	}
	if err := check(history); err != nil {
		return nil, err
	}
	return history, nil
}

func loadEntries(ctx context.Context, db *sql.DB, probe string) ([]domain.HistoryEntry, error) {
	rows, err := db.QueryContext(ctx, `SELECT timestamp, tag_kind, tag_value, command,
		kind, exit_code, stdout, stderr, timeout, message
		FROM entries WHERE probe = ? ORDER BY seq`, probe)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHistoryCorrupt, err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var ts string
		var tagValue int
		if err := rows.Scan(&ts, &e.Tag.Kind, &tagValue, &e.Command,
			&e.Outcome.Kind, &e.Outcome.ExitCode, &e.Outcome.Stdout, &e.Outcome.Stderr,
			&e.Outcome.TimeoutSeconds, &e.Outcome.Message); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrHistoryCorrupt, err)
		}
		at, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: probe %q: %v", domain.ErrHistoryCorrupt, probe, err)
		}
		e.Timestamp = at
		e.Tag.Value = uint8(tagValue)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHistoryCorrupt, err)
	}
	return entries, nil
}

// Save implements ports.HistoryRepository.
func (s *SQLiteStore) Save(ctx context.Context, history *domain.History) error {
	db, err := s.open(ctx)
	if err != nil {
		return fmt.Errorf("open history %s: %w", s.path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := replaceAll(ctx, tx, history); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("write history %s: %w", s.path, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history %s: %w", s.path, err)
	}
	if err := filesystem.Chown(s.path, s.uid, s.gid); err != nil {
		return fmt.Errorf("chown history %s: %w", s.path, err)
	}
	return nil
}

func replaceAll(ctx context.Context, tx *sql.Tx, history *domain.History) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM probes"); err != nil {
		return err
	}
	for pos, p := range history.Probes {
		var notified sql.NullString
		if p.LastNotifiedAt != nil {
			notified = sql.NullString{String: p.LastNotifiedAt.UTC().Format(time.RFC3339Nano), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO probes (name, position, last_notified_at) VALUES (?, ?, ?)",
			p.Name, pos, notified); err != nil {
			return err
		}
		for seq, e := range p.Entries {
			if _, err := tx.ExecContext(ctx, `INSERT INTO entries
				(probe, seq, timestamp, tag_kind, tag_value, command, kind, exit_code, stdout, stderr, timeout, message)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.Name, seq,
				e.Timestamp.UTC().Format(time.RFC3339Nano),
				string(e.Tag.Kind), int(e.Tag.Value),
				e.Command,
				string(e.Outcome.Kind), e.Outcome.ExitCode, e.Outcome.Stdout, e.Outcome.Stderr,
				int(e.Outcome.TimeoutSeconds), e.Outcome.Message,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
