package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"episbc/adapters/excel"
	"episbc/adapters/postgres"
	"episbc/adapters/selfcheck"
	"episbc/app"
	"episbc/domain/sbc"
	"episbc/internal/config"
	"episbc/ports"
)

func newStudyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Run a full simulation-based calibration study",
		Long: `Run a calibration study: simulate scenarios from the joint prior, draw
posterior samples per scenario, and compute rank statistics, the rank
histogram, ECDF confidence bands, recovery metrics, and the chi-square
uniformity check.

Knobs come either from flags or from a YAML spec file:

  episbc study --scenarios 1000 --draws 99 --seed 42 --report study.xlsx
  episbc study --spec study.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildStudyRequest(cmd)
			if err != nil {
				return err
			}

			var store ports.StudyStore
			if req.Save {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				db, err := postgres.Connect(cfg.Database)
				if err != nil {
					return err
				}
				defer db.Close()
				store = postgres.NewStudyRepository(db)
			}
			var writer ports.ReportWriter
			if req.ReportPath != "" {
				writer = excel.NewReportWriter()
			}

			service := app.NewStudyService(selfcheck.Factory(), store, writer, nil)
			result, err := service.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				encoded, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding study result: %w", err)
				}
				fmt.Println(string(encoded))
				return nil
			}
			printStudySummary(result, req)
			return nil
		},
	}

	cmd.Flags().String("spec", "", "YAML study spec file")
	cmd.Flags().Uint64("seed", 1, "Root seed for the study")
	cmd.Flags().Int("scenarios", 1000, "Simulated scenarios")
	cmd.Flags().Int("draws", 99, "Posterior draws per scenario")
	cmd.Flags().Float64("population", 83e6, "Closed population size")
	cmd.Flags().Int("horizon", 14, "Observed days per trajectory")
	cmd.Flags().Float64("epsilon", 0, "Observation mean floor (0 selects the default)")
	cmd.Flags().Int("num-bins", sbc.DefaultNumBins, "Rank histogram bins")
	cmd.Flags().Int("grid-points", sbc.DefaultGridPoints, "ECDF evaluation points")
	cmd.Flags().Float64("confidence", sbc.DefaultConfidence, "Confidence level for ECDF bands")
	cmd.Flags().Bool("simultaneous", false, "Adjust bands for simultaneous coverage")
	cmd.Flags().String("estimator", string(sbc.EstimatorMean), "Point estimator: mean or median")
	cmd.Flags().Int("workers", 0, "Concurrent simulation workers (0 selects the default)")
	cmd.Flags().String("report", "", "Write the study workbook to this .xlsx path")
	cmd.Flags().Bool("save", false, "Persist the study report to the database")
	cmd.Flags().Bool("json", false, "Print the full study result as JSON")
	return cmd
}

// buildStudyRequest resolves the study knobs from the YAML spec file when
// given and from flags otherwise. Report and save flags override the file
// when set explicitly.
func buildStudyRequest(cmd *cobra.Command) (app.StudyRequest, error) {
	specPath, _ := cmd.Flags().GetString("spec")
	if specPath != "" {
		spec, err := config.LoadStudySpec(specPath)
		if err != nil {
			return app.StudyRequest{}, err
		}
		req := app.StudyRequest{
			Seed:         spec.Seed,
			Scenarios:    spec.Scenarios,
			Draws:        spec.Draws,
			Population:   spec.Population,
			Horizon:      spec.Horizon,
			Epsilon:      spec.Epsilon,
			NumBins:      spec.NumBins,
			GridPoints:   spec.GridPoints,
			Confidence:   spec.Confidence,
			Simultaneous: spec.Simultaneous,
			Estimator:    sbc.PointEstimator(spec.Estimator),
			Workers:      spec.Workers,
			ReportPath:   spec.Report,
			Save:         spec.Save,
		}
		if cmd.Flags().Changed("report") {
			req.ReportPath, _ = cmd.Flags().GetString("report")
		}
		if cmd.Flags().Changed("save") {
			req.Save, _ = cmd.Flags().GetBool("save")
		}
		return req, nil
	}

	seed, _ := cmd.Flags().GetUint64("seed")
	scenarios, _ := cmd.Flags().GetInt("scenarios")
	draws, _ := cmd.Flags().GetInt("draws")
	population, _ := cmd.Flags().GetFloat64("population")
	horizon, _ := cmd.Flags().GetInt("horizon")
	epsilon, _ := cmd.Flags().GetFloat64("epsilon")
	numBins, _ := cmd.Flags().GetInt("num-bins")
	gridPoints, _ := cmd.Flags().GetInt("grid-points")
	confidence, _ := cmd.Flags().GetFloat64("confidence")
	simultaneous, _ := cmd.Flags().GetBool("simultaneous")
	estimator, _ := cmd.Flags().GetString("estimator")
	workers, _ := cmd.Flags().GetInt("workers")
	report, _ := cmd.Flags().GetString("report")
	save, _ := cmd.Flags().GetBool("save")

	return app.StudyRequest{
		Seed:         seed,
		Scenarios:    scenarios,
		Draws:        draws,
		Population:   population,
		Horizon:      horizon,
		Epsilon:      epsilon,
		NumBins:      numBins,
		GridPoints:   gridPoints,
		Confidence:   confidence,
		Simultaneous: simultaneous,
		Estimator:    sbc.PointEstimator(estimator),
		Workers:      workers,
		ReportPath:   report,
		Save:         save,
	}, nil
}

func printStudySummary(result *app.StudyResult, req app.StudyRequest) {
	manifest := result.Report.Manifest
	fmt.Printf("Study %s completed: %d scenarios x %d draws in %dms\n",
		result.StudyID, manifest.Scenarios, manifest.Draws, result.RuntimeMs)
	fmt.Printf("Fingerprint %s (seed %d, estimator %s)\n\n",
		manifest.Fingerprint, manifest.Seed, manifest.Estimator)

	fmt.Printf("%-20s %12s %10s %12s %10s\n", "parameter", "chi-square", "p-value", "contraction", "nrmse")
	for i, check := range result.Report.Uniformity.Checks {
		recovery := result.Report.Recovery.Metrics[i]
		fmt.Printf("%-20s %12.3f %10.4f %12.3f %10.4f\n",
			check.Name, check.ChiSquare, check.PValue, recovery.Contraction, recovery.NRMSE)
	}

	if req.Save {
		fmt.Printf("\nSaved study %s to the database\n", result.StudyID)
	}
	if req.ReportPath != "" {
		fmt.Printf("Wrote workbook %s\n", req.ReportPath)
	}
}
