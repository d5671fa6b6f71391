package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore общее подключение к базе проверок и сотрудников.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS inspections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	helmet INTEGER NOT NULL,
	vest INTEGER NOT NULL,
	goggles INTEGER NOT NULL DEFAULT 0,
	mask INTEGER NOT NULL DEFAULT 0,
	compliant INTEGER NOT NULL,
	image_filename TEXT,
	source TEXT NOT NULL DEFAULT 'http',
	created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_inspections_timestamp ON inspections(timestamp);

CREATE TABLE IF NOT EXISTS employees (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	surname TEXT NOT NULL,
	registration_no TEXT UNIQUE NOT NULL,
	department TEXT NOT NULL DEFAULT 'Unspecified',
	photo_filename TEXT,
	face_encoding TEXT,
	created_at TEXT NOT NULL
);
`

// NewSQLiteStore открывает базу и создаёт таблицы.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// HTTP и бот пишут в одну базу: WAL и busy timeout
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Debug().Str("path", dbPath).Msg("sqlite schema ready")
	return &SQLiteStore{db: db}, nil
}

// Inspections репозиторий проверок поверх этого подключения.
func (s *SQLiteStore) Inspections() *InspectionRepository {
	return &InspectionRepository{db: s.db}
}

// Employees репозиторий сотрудников поверх этого подключения.
func (s *SQLiteStore) Employees() *EmployeeRepository {
	return &EmployeeRepository{db: s.db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timeLayout фиксированной ширины, строки в UTC сортируются как время.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
