package cache

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a supplemented alternative to the JSON file: a
// durable, queryable backing store for validation cache entries,
// useful when a long-lived orchestrator wants history across process
// restarts without re-reading a monolithic JSON blob.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cache_entries (
			key TEXT PRIMARY KEY,
			file_paths TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			result TEXT NOT NULL,
			stored_at INTEGER NOT NULL
		)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Upsert(key, filePathsCSV, fingerprint, result string) error {
	_, err := s.db.Exec(`
		INSERT INTO cache_entries (key, file_paths, fingerprint, result, stored_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			file_paths=excluded.file_paths, fingerprint=excluded.fingerprint,
			result=excluded.result, stored_at=excluded.stored_at`,
		key, filePathsCSV, fingerprint, result, time.Now().Unix())
	return err
}

func (s *SQLiteStore) Get(key string) (fingerprint, result string, storedAt time.Time, found bool, err error) {
	row := s.db.QueryRow(`SELECT fingerprint, result, stored_at FROM cache_entries WHERE key = ?`, key)
	var epoch int64
	if scanErr := row.Scan(&fingerprint, &result, &epoch); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return "", "", time.Time{}, false, nil
		}
		return "", "", time.Time{}, false, scanErr
	}
	return fingerprint, result, time.Unix(epoch, 0), true, nil
}

func (s *SQLiteStore) DeleteByFilePathSubstring(path string) error {
	_, err := s.db.Exec(`DELETE FROM cache_entries WHERE file_paths LIKE ?`, "%"+path+"%")
	return err
}
