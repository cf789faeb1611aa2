package chipbook

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is where the books live between runs. A store holds exactly one
// snapshot: loading from an empty store yields an empty snapshot, never an
// error, so a brand-new setup needs no initialization step.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
}

// emptySnapshot is what a store with nothing in it hands back.
func emptySnapshot() *Snapshot {
	return &Snapshot{Version: SnapshotVersion}
}

// FileStore keeps the snapshot as a single JSON document on disk, readable
// and diffable, fit to live in a private git repo.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

func (f *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	file, err := os.Open(f.Path)
	if os.IsNotExist(err) {
		return emptySnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open snapshot file %q: %w", f.Path, err)
	}
	defer file.Close()

	s, err := DecodeSnapshot(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode snapshot file %q: %w", f.Path, err)
	}
	return s, nil
}

func (f *FileStore) Save(ctx context.Context, s *Snapshot) error {
	// Ensure the directory for the snapshot file exists.
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("could not create directory for snapshot %q: %w", f.Path, err)
	}
	file, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("error opening snapshot file %q for writing: %w", f.Path, err)
	}
	defer file.Close()

	return EncodeSnapshot(file, s)
}

// HTTPStore keeps the snapshot behind a URL: GET to load, PUT to save.
// Anything speaking plain HTTP with those two verbs can act as the remote,
// which is all the sync loop asks of one.
type HTTPStore struct {
	URL    string
	Client *http.Client
}

// NewHTTPStore returns a store backed by the given URL.
func NewHTTPStore(url string) *HTTPStore {
	return &HTTPStore{URL: url, Client: http.DefaultClient}
}

func (h *HTTPStore) Load(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch snapshot from %q: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return emptySnapshot(), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	s, err := DecodeSnapshot(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not decode snapshot from %q: %w", h.URL, err)
	}
	return s, nil
}

func (h *HTTPStore) Save(ctx context.Context, s *Snapshot) error {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, s); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, h.URL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.Client.Do(req)
	if err != nil {
		return fmt.Errorf("could not push snapshot to %q: %w", h.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("cannot http PUT %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	return nil
}

// SQLiteStore keeps the snapshot in a single-row sqlite table, for setups
// that prefer one database file over a JSON document.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			version INTEGER NOT NULL,
			payload_json BLOB NOT NULL,
			last_modified TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload_json FROM snapshots WHERE id = 1`)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return emptySnapshot(), nil
		}
		return nil, err
	}
	snap, err := DecodeSnapshot(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("could not decode stored snapshot: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, snap); err != nil {
		return err
	}
	stmt := `INSERT INTO snapshots(id, version, payload_json, last_modified) VALUES(1, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		version=excluded.version,
		payload_json=excluded.payload_json,
		last_modified=excluded.last_modified`
	_, err := s.db.ExecContext(ctx, stmt,
		snap.Version,
		buf.Bytes(),
		snap.LastModified.UTC().Format(time.RFC3339Nano),
	)
	return err
}
