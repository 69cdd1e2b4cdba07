package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"episbc/domain/core"
	"episbc/domain/sbc"
	apperrors "episbc/internal/errors"
	"episbc/ports"
)

// StudyRepositoryImpl implements StudyStore for PostgreSQL
type StudyRepositoryImpl struct {
	db *sqlx.DB
}

// NewStudyRepository creates a new PostgreSQL study repository
func NewStudyRepository(db *sqlx.DB) ports.StudyStore {
	return &StudyRepositoryImpl{db: db}
}

// SaveStudy persists a completed study report
func (r *StudyRepositoryImpl) SaveStudy(ctx context.Context, report *sbc.StudyReport) error {
	if report == nil {
		return apperrors.InvalidInput("study report is nil")
	}

	manifestJSON, err := json.Marshal(report.Manifest)
	if err != nil {
		return apperrors.StorageError("failed to encode study manifest", err)
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return apperrors.StorageError("failed to encode study report", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sbc_studies (id, created_at, seed, fingerprint, manifest, report)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, report.Manifest.StudyID.String(), report.Manifest.CreatedAt.Time(),
		strconv.FormatUint(report.Manifest.Seed, 10), string(report.Manifest.Fingerprint),
		manifestJSON, reportJSON)

	if err != nil {
		return apperrors.StorageError("failed to insert study", err)
	}
	return nil
}

// GetStudy retrieves a study report by ID
func (r *StudyRepositoryImpl) GetStudy(ctx context.Context, id core.StudyID) (*sbc.StudyReport, error) {
	var reportJSON []byte
	err := r.db.GetContext(ctx, &reportJSON, `
		SELECT report FROM sbc_studies WHERE id = $1
	`, id.String())

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w with id %s", core.ErrStudyNotFound, id.String())
		}
		return nil, apperrors.StorageError("failed to query study", err)
	}

	var report sbc.StudyReport
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		return nil, apperrors.StorageError("failed to decode study report", err)
	}
	return &report, nil
}

// ListStudies returns manifests of stored studies, newest first
func (r *StudyRepositoryImpl) ListStudies(ctx context.Context, limit int) ([]sbc.StudyManifest, error) {
	query := `
		SELECT manifest FROM sbc_studies
		ORDER BY created_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.StorageError("failed to list studies", err)
	}
	defer rows.Close()

	var manifests []sbc.StudyManifest
	for rows.Next() {
		var manifestJSON []byte
		if err := rows.Scan(&manifestJSON); err != nil {
			return nil, apperrors.StorageError("failed to scan study manifest", err)
		}
		var manifest sbc.StudyManifest
		if err := json.Unmarshal(manifestJSON, &manifest); err != nil {
			return nil, apperrors.StorageError("failed to decode study manifest", err)
		}
		manifests = append(manifests, manifest)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.StorageError("failed reading study rows", err)
	}
	return manifests, nil
}
