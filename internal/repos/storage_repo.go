package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type StorageRepo struct{ db *sqlx.DB }

func NewStorageRepo(db *sqlx.DB) *StorageRepo { return &StorageRepo{db: db} }

// For returns the key/value space owned by one session id.
func (r *StorageRepo) For(sid string) *SessionStorage {
	return &SessionStorage{db: r.db, sid: sid}
}

// DeleteSession drops a session and all of its keys.
func (r *StorageRepo) DeleteSession(sid string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// foreign_keys is per-connection in sqlite, so don't rely on the cascade.
	if _, err := tx.Exec(`DELETE FROM session_storage WHERE session_id = ?`, sid); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, sid); err != nil {
		return err
	}
	return tx.Commit()
}

// IdleSessions lists sessions whose storage was last written before the
// given time.
func (r *StorageRepo) IdleSessions(before time.Time) ([]string, error) {
	var ids []string
	err := r.db.Select(&ids, `
		SELECT id FROM sessions
		WHERE COALESCE(last_seen, created_at) < ?
		ORDER BY id
	`, before.UTC().Format(time.DateTime))
	return ids, err
}

type SessionStorage struct {
	db  *sqlx.DB
	sid string
}

func (s *SessionStorage) GetItem(key string) (string, bool, error) {
	var v string
	err := s.db.Get(&v, `SELECT value FROM session_storage WHERE session_id = ? AND key = ?`, s.sid, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SessionStorage) SetItem(key, value string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO sessions(id, last_seen) VALUES(?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET last_seen = CURRENT_TIMESTAMP
	`, s.sid); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO session_storage(session_id, key, value, updated_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_id, key) DO UPDATE
		SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, s.sid, key, value); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SessionStorage) RemoveItem(key string) error {
	_, err := s.db.Exec(`DELETE FROM session_storage WHERE session_id = ? AND key = ?`, s.sid, key)
	return err
}
