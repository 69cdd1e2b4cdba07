package ports

import (
	"context"

	"episbc/domain/core"
	"episbc/domain/sbc"
)

// StudyStore persists completed study reports for later retrieval.
type StudyStore interface {
	SaveStudy(ctx context.Context, report *sbc.StudyReport) error
	GetStudy(ctx context.Context, id core.StudyID) (*sbc.StudyReport, error)
	ListStudies(ctx context.Context, limit int) ([]sbc.StudyManifest, error)
}

// ReportWriter renders a study report to a file (spreadsheet, etc).
type ReportWriter interface {
	WriteStudy(report *sbc.StudyReport, path string) error
}
