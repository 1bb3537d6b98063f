package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/ayusman/bodyscan/internal/measure"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Kind identifies which estimator produced a scan.
type Kind string

const (
	// KindPlanar is a scan estimated from 2D landmarks.
	KindPlanar Kind = "planar"
	// KindVolumetric is a scan estimated from a rotation capture.
	KindVolumetric Kind = "volumetric"
)

// Scan is one persisted estimation result.
type Scan struct {
	ID                string                   `json:"id"`
	Kind              Kind                     `json:"kind"`
	ReferenceHeightCm float64                  `json:"reference_height_cm,omitempty"`
	FrameCount        int                      `json:"frame_count,omitempty"`
	Valid             bool                     `json:"valid"`
	Measurements      measure.BodyMeasurements `json:"measurements"`
	Issues            []measure.Issue          `json:"issues,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
}

// ScanRepository provides CRUD operations for scans.
type ScanRepository struct {
	db *sql.DB
}

// Scans returns the scan repository for this store.
func (s *Store) Scans() *ScanRepository {
	return &ScanRepository{db: s.db}
}

// Create inserts a scan with its measurements and issues in one
// transaction.
func (r *ScanRepository) Create(ctx context.Context, sc *Scan) error {
	sc.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scans (id, kind, reference_height_cm, frame_count, valid, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sc.ID, string(sc.Kind), sc.ReferenceHeightCm, sc.FrameCount, sc.Valid, sc.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert scan")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scan_measurements (scan_id, name, value_cm, confidence) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	m := &sc.Measurements
	for _, n := range measure.Names {
		if _, err := stmt.ExecContext(ctx, sc.ID, string(n), m.Get(n), string(m.ConfidenceOf(n))); err != nil {
			return errors.Wrapf(err, "insert measurement %s", n)
		}
	}

	for _, is := range sc.Issues {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO scan_issues (scan_id, name, value_cm, min_cm, max_cm) VALUES (?, ?, ?, ?, ?)`,
			sc.ID, string(is.Name), is.Value, is.Range.Min, is.Range.Max,
		)
		if err != nil {
			return errors.Wrapf(err, "insert issue %s", is.Name)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a scan with its measurements and issues.
func (r *ScanRepository) GetByID(ctx context.Context, id string) (*Scan, error) {
	sc := &Scan{}
	var kind string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, kind, reference_height_cm, frame_count, valid, created_at
		 FROM scans WHERE id = ?`,
		id,
	).Scan(&sc.ID, &kind, &sc.ReferenceHeightCm, &sc.FrameCount, &sc.Valid, &sc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sc.Kind = Kind(kind)

	if err := r.loadMeasurements(ctx, sc); err != nil {
		return nil, err
	}
	if err := r.loadIssues(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (r *ScanRepository) loadMeasurements(ctx context.Context, sc *Scan) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, value_cm, confidence FROM scan_measurements WHERE scan_id = ?`, sc.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	sc.Measurements = measure.New()
	for rows.Next() {
		var name, conf string
		var v float64
		if err := rows.Scan(&name, &v, &conf); err != nil {
			return err
		}
		sc.Measurements.Set(measure.Name(name), v, measure.Confidence(conf))
	}
	return rows.Err()
}

func (r *ScanRepository) loadIssues(ctx context.Context, sc *Scan) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, value_cm, min_cm, max_cm FROM scan_issues WHERE scan_id = ? ORDER BY rowid`, sc.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var is measure.Issue
		var name string
		if err := rows.Scan(&name, &is.Value, &is.Range.Min, &is.Range.Max); err != nil {
			return err
		}
		is.Name = measure.Name(name)
		sc.Issues = append(sc.Issues, is)
	}
	return rows.Err()
}

// List retrieves the most recent scans, newest first, without their
// measurements. A non-positive limit returns every scan.
func (r *ScanRepository) List(ctx context.Context, limit int) ([]*Scan, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, reference_height_cm, frame_count, valid, created_at
		 FROM scans ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []*Scan
	for rows.Next() {
		sc := &Scan{}
		var kind string
		if err := rows.Scan(&sc.ID, &kind, &sc.ReferenceHeightCm, &sc.FrameCount, &sc.Valid, &sc.CreatedAt); err != nil {
			return nil, err
		}
		sc.Kind = Kind(kind)
		scans = append(scans, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scans, nil
}

// Delete removes a scan and everything attached to it.
func (r *ScanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scans WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SaveInput stores the raw capture payload of a scan.
func (r *ScanRepository) SaveInput(ctx context.Context, scanID string, data json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO scan_inputs (scan_id, data) VALUES (?, ?)`, scanID, string(data))
	return err
}

// Input returns the raw capture payload of a scan.
func (r *ScanRepository) Input(ctx context.Context, scanID string) (json.RawMessage, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM scan_inputs WHERE scan_id = ?`, scanID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return json.RawMessage(data), nil
}
