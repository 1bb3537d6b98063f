package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per estimation run
		`CREATE TABLE IF NOT EXISTS scans (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL CHECK(kind IN ('planar', 'volumetric')),
			reference_height_cm REAL NOT NULL DEFAULT 0,
			frame_count INTEGER NOT NULL DEFAULT 0,
			valid INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Measurement values and their confidence
		`CREATE TABLE IF NOT EXISTS scan_measurements (
			scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			value_cm REAL NOT NULL,
			confidence TEXT NOT NULL,
			PRIMARY KEY (scan_id, name)
		)`,

		// Out-of-range findings from validation
		`CREATE TABLE IF NOT EXISTS scan_issues (
			scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			value_cm REAL NOT NULL,
			min_cm REAL NOT NULL,
			max_cm REAL NOT NULL
		)`,

		// Raw capture payload so a scan can be re-estimated later
		`CREATE TABLE IF NOT EXISTS scan_inputs (
			scan_id TEXT PRIMARY KEY REFERENCES scans(id) ON DELETE CASCADE,
			data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_issues_scan_id ON scan_issues(scan_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
