package vraseniors

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/CLAYYO/VRASeniors/views"
)

// Upload kinds.
const (
	KindPDF   = "pdf"
	KindImage = "image"
)

// Store wraps a SQLite database recording uploads and publish attempts.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the dashboard read while an upload is being recorded.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS uploads (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    kind TEXT NOT NULL,
    size INTEGER NOT NULL,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    uploaded_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS publishes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    message TEXT NOT NULL,
    hash TEXT NOT NULL DEFAULT '',
    committed INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);
`)
	return err
}

// UploadRecord is one stored upload.
type UploadRecord struct {
	Filename     string
	OriginalName string
	Kind         string
	Size         int64
	Width        int
	Height       int
	UploadedAt   time.Time
}

// SaveUpload upserts an upload record.
func (s *Store) SaveUpload(u UploadRecord) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO uploads (filename, original_name, kind, size, width, height, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Filename, u.OriginalName, u.Kind, u.Size, u.Width, u.Height, u.UploadedAt.UnixMilli())
	return err
}

// ListUploads returns the most recent uploads first. kind filters when non-empty.
func (s *Store) ListUploads(kind string, limit int) ([]UploadRecord, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, kind, size, width, height, uploaded_at FROM uploads
WHERE ? = '' OR kind = ? ORDER BY uploaded_at DESC, filename LIMIT ?`, kind, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UploadRecord
	for rows.Next() {
		var u UploadRecord
		var at int64
		if err := rows.Scan(&u.Filename, &u.OriginalName, &u.Kind, &u.Size, &u.Width, &u.Height, &at); err != nil {
			return nil, err
		}
		u.UploadedAt = time.UnixMilli(at).UTC()
		out = append(out, u)
	}
	return out, rows.Err()
}

// PublishRecord is one publish attempt.
type PublishRecord struct {
	ID        int64
	Message   string
	Hash      string
	Committed bool
	Error     string
	CreatedAt time.Time
}

// SavePublish appends a publish attempt and returns its id.
func (s *Store) SavePublish(p PublishRecord) (int64, error) {
	committed := 0
	if p.Committed {
		committed = 1
	}
	res, err := s.db.Exec(`INSERT INTO publishes (message, hash, committed, error, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.Message, p.Hash, committed, p.Error, p.CreatedAt.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListPublishes returns the most recent publish attempts first.
func (s *Store) ListPublishes(limit int) ([]PublishRecord, error) {
	rows, err := s.db.Query(`SELECT id, message, hash, committed, error, created_at FROM publishes ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PublishRecord
	for rows.Next() {
		var p PublishRecord
		var committed int
		var at int64
		if err := rows.Scan(&p.ID, &p.Message, &p.Hash, &committed, &p.Error, &at); err != nil {
			return nil, err
		}
		p.Committed = committed == 1
		p.CreatedAt = time.UnixMilli(at).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

func (u UploadRecord) view() views.Upload {
	return views.Upload{
		Filename:     u.Filename,
		OriginalName: u.OriginalName,
		Kind:         u.Kind,
		Size:         u.Size,
		UploadedAt:   u.UploadedAt,
	}
}

func (p PublishRecord) view() views.Publish {
	return views.Publish{
		Message:   p.Message,
		Hash:      p.Hash,
		Committed: p.Committed,
		Error:     p.Error,
		CreatedAt: p.CreatedAt,
	}
}
