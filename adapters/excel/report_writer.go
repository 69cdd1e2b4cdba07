package excel

import (
	"fmt"
	"log"
	"time"

	"github.com/xuri/excelize/v2"

	"episbc/domain/sbc"
	apperrors "episbc/internal/errors"
	"episbc/ports"
)

// Sheet names in the study workbook
const (
	sheetSummary     = "Summary"
	sheetRanks       = "Ranks"
	sheetHistogram   = "Histogram"
	sheetCurves      = "Curves"
	sheetDifferences = "DifferenceCurves"
)

// ReportWriterImpl renders study reports as xlsx workbooks
type ReportWriterImpl struct{}

// NewReportWriter creates an xlsx report writer
func NewReportWriter() ports.ReportWriter {
	return &ReportWriterImpl{}
}

// WriteStudy writes one workbook with summary, ranks, histogram and curve
// sheets. Sections whose diagnostics are absent are skipped.
func (w *ReportWriterImpl) WriteStudy(report *sbc.StudyReport, path string) error {
	if report == nil {
		return apperrors.InvalidInput("study report is nil")
	}

	start := time.Now()
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return apperrors.ReportError("failed to name summary sheet", err)
	}

	if err := writeSummary(f, report); err != nil {
		return apperrors.ReportError("failed to write summary sheet", err)
	}
	if report.Ranks != nil {
		if err := writeRanks(f, report.Ranks); err != nil {
			return apperrors.ReportError("failed to write ranks sheet", err)
		}
	}
	if report.Histogram != nil && report.Ranks != nil {
		if err := writeHistogram(f, report.Ranks, report.Histogram); err != nil {
			return apperrors.ReportError("failed to write histogram sheet", err)
		}
	}
	if report.Curves != nil {
		if err := writeCurves(f, sheetCurves, report.Curves); err != nil {
			return apperrors.ReportError("failed to write curves sheet", err)
		}
	}
	if report.DifferenceCurves != nil {
		if err := writeCurves(f, sheetDifferences, report.DifferenceCurves); err != nil {
			return apperrors.ReportError("failed to write difference curves sheet", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.ReportError(fmt.Sprintf("failed to save workbook %s", path), err)
	}

	log.Printf("[ReportWriter] Wrote study %s to %s in %.2fms",
		report.Manifest.StudyID, path, float64(time.Since(start).Microseconds())/1000.0)
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func writeSummary(f *excelize.File, report *sbc.StudyReport) error {
	m := report.Manifest
	fields := []struct {
		key   string
		value interface{}
	}{
		{"Study ID", m.StudyID.String()},
		{"Created", m.CreatedAt.String()},
		{"Seed", m.Seed},
		{"Scenarios", m.Scenarios},
		{"Draws", m.Draws},
		{"Population", m.Population},
		{"Horizon", m.Horizon},
		{"Epsilon", m.Epsilon},
		{"Num Bins", m.NumBins},
		{"Grid Points", m.GridPoints},
		{"Confidence", m.Confidence},
		{"Estimator", string(m.Estimator)},
		{"Fingerprint", m.Fingerprint.String()},
		{"Code Version", m.CodeVersion},
		{"Runtime ms", report.RuntimeMs},
	}
	row := 1
	for _, field := range fields {
		if err := setCell(f, sheetSummary, 1, row, field.key); err != nil {
			return err
		}
		if err := setCell(f, sheetSummary, 2, row, field.value); err != nil {
			return err
		}
		row++
	}
	row++

	if report.Recovery != nil {
		headers := []string{"Parameter", "RMSE", "NRMSE", "Bias", "Mean Z", "Contraction", "Truth Range", "Prior Var"}
		for c, h := range headers {
			if err := setCell(f, sheetSummary, c+1, row, h); err != nil {
				return err
			}
		}
		row++
		for _, metric := range report.Recovery.Metrics {
			values := []interface{}{metric.Name, metric.RMSE, metric.NRMSE, metric.Bias, metric.MeanZScore, metric.Contraction, metric.TruthRange, metric.PriorVar}
			for c, v := range values {
				if err := setCell(f, sheetSummary, c+1, row, v); err != nil {
					return err
				}
			}
			row++
		}
		row++
	}

	if report.Uniformity != nil {
		headers := []string{"Parameter", "Chi Square", "DoF", "P Value"}
		for c, h := range headers {
			if err := setCell(f, sheetSummary, c+1, row, h); err != nil {
				return err
			}
		}
		row++
		for _, check := range report.Uniformity.Checks {
			values := []interface{}{check.Name, check.ChiSquare, check.DegreesOfFreedom, check.PValue}
			for c, v := range values {
				if err := setCell(f, sheetSummary, c+1, row, v); err != nil {
					return err
				}
			}
			row++
		}
	}
	return nil
}

func writeRanks(f *excelize.File, ranks *sbc.RankMatrix) error {
	if _, err := f.NewSheet(sheetRanks); err != nil {
		return err
	}
	if err := setCell(f, sheetRanks, 1, 1, "Scenario"); err != nil {
		return err
	}
	for k, name := range ranks.ParameterNames {
		if err := setCell(f, sheetRanks, k+2, 1, name); err != nil {
			return err
		}
	}
	for m := 0; m < ranks.NumScenarios; m++ {
		if err := setCell(f, sheetRanks, 1, m+2, m); err != nil {
			return err
		}
		for k := 0; k < ranks.NumParameters(); k++ {
			if err := setCell(f, sheetRanks, k+2, m+2, ranks.Ranks[m][k]); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeHistogram(f *excelize.File, ranks *sbc.RankMatrix, hist *sbc.Histogram) error {
	if _, err := f.NewSheet(sheetHistogram); err != nil {
		return err
	}
	headers := []string{"Bin", "Lower Edge", "Upper Edge", "Expected"}
	for c, h := range headers {
		if err := setCell(f, sheetHistogram, c+1, 1, h); err != nil {
			return err
		}
	}
	for k, name := range ranks.ParameterNames {
		if err := setCell(f, sheetHistogram, len(headers)+k+1, 1, name); err != nil {
			return err
		}
	}
	for b := 0; b < hist.NumBins; b++ {
		row := b + 2
		if err := setCell(f, sheetHistogram, 1, row, b); err != nil {
			return err
		}
		if err := setCell(f, sheetHistogram, 2, row, hist.Edges[b]); err != nil {
			return err
		}
		if err := setCell(f, sheetHistogram, 3, row, hist.Edges[b+1]); err != nil {
			return err
		}
		if err := setCell(f, sheetHistogram, 4, row, hist.Expected); err != nil {
			return err
		}
		for k := range ranks.ParameterNames {
			if err := setCell(f, sheetHistogram, len(headers)+k+1, row, hist.Counts[k][b]); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCurves(f *excelize.File, sheet string, curves *sbc.CalibrationCurveSet) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setCell(f, sheet, 1, 1, "Grid"); err != nil {
		return err
	}
	for k, curve := range curves.Curves {
		base := 2 + k*3
		if err := setCell(f, sheet, base, 1, curve.Name); err != nil {
			return err
		}
		if err := setCell(f, sheet, base+1, 1, curve.Name+" lower"); err != nil {
			return err
		}
		if err := setCell(f, sheet, base+2, 1, curve.Name+" upper"); err != nil {
			return err
		}
	}
	for j, x := range curves.Grid {
		row := j + 2
		if err := setCell(f, sheet, 1, row, x); err != nil {
			return err
		}
		for k, curve := range curves.Curves {
			base := 2 + k*3
			if err := setCell(f, sheet, base, row, curve.Values[j]); err != nil {
				return err
			}
			if err := setCell(f, sheet, base+1, row, curve.Lower[j]); err != nil {
				return err
			}
			if err := setCell(f, sheet, base+2, row, curve.Upper[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Ensure ReportWriterImpl implements ReportWriter
var _ ports.ReportWriter = (*ReportWriterImpl)(nil)
