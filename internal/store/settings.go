package store

import "fmt"

// SetSettings writes all pairs in one transaction.
func (s *Store) SetSettings(settings []Setting) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin settings tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
	)
	if err != nil {
		return fmt.Errorf("prepare settings: %w", err)
	}
	defer stmt.Close()

	for _, st := range settings {
		if _, err := stmt.Exec(st.Key, st.Value); err != nil {
			return fmt.Errorf("set setting %q: %w", st.Key, err)
		}
	}
	return tx.Commit()
}

// GetAllSettings returns every setting ordered by key.
func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
