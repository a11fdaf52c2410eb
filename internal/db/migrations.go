package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			start_time TIME NOT NULL,
			end_time   TIME NOT NULL,
			color      TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_time);

		CREATE TABLE IF NOT EXISTS backlog (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority    TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high')),
			status      TEXT NOT NULL DEFAULT 'open' CHECK(status IN ('open', 'done')),
			list_name   TEXT NOT NULL DEFAULT 'inbox',
			tags        TEXT NOT NULL DEFAULT '',
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_backlog_status ON backlog(status);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	// Databases created before lists and tags existed.
	for _, col := range []struct{ name, def string }{
		{"list_name", "TEXT NOT NULL DEFAULT 'inbox'"},
		{"tags", "TEXT NOT NULL DEFAULT ''"},
	} {
		if err := s.addColumn("backlog", col.name, col.def); err != nil {
			return err
		}
	}

	return nil
}

// addColumn adds a column to table unless it is already there.
func (s *SQLite) addColumn(table, name, def string) error {
	rows, err := s.db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return fmt.Errorf("reading %s columns: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return fmt.Errorf("reading %s columns: %w", table, err)
		}
		if col == name {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading %s columns: %w", table, err)
	}
	_ = rows.Close()

	if _, err := s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, name, def)); err != nil {
		return fmt.Errorf("adding %s.%s: %w", table, name, err)
	}
	return nil
}
