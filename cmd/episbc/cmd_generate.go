package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"episbc/app"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Sample a prior-predictive batch of outbreak trajectories",
		Long: `Sample parameter vectors from the prior, simulate one outbreak per
vector, and write the batch with its quantile envelope as JSON.

Example:
  episbc generate --size 500 --seed 42 --out batch.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetUint64("seed")
			size, _ := cmd.Flags().GetInt("size")
			population, _ := cmd.Flags().GetFloat64("population")
			horizon, _ := cmd.Flags().GetInt("horizon")
			epsilon, _ := cmd.Flags().GetFloat64("epsilon")
			workers, _ := cmd.Flags().GetInt("workers")
			out, _ := cmd.Flags().GetString("out")

			service := app.NewSimulationService(nil)
			result, err := service.GenerateBatch(cmd.Context(), app.BatchRequest{
				Seed:       seed,
				Size:       size,
				Population: population,
				Horizon:    horizon,
				Epsilon:    epsilon,
				Workers:    workers,
			})
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding batch: %w", err)
			}
			if out == "" {
				fmt.Println(string(encoded))
				return nil
			}
			if err := os.WriteFile(out, encoded, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Printf("Wrote batch of %d trajectories to %s (%dms)\n", size, out, result.RuntimeMs)
			return nil
		},
	}

	cmd.Flags().Uint64("seed", 1, "Root seed for the batch")
	cmd.Flags().Int("size", 100, "Number of scenarios to simulate")
	cmd.Flags().Float64("population", 83e6, "Closed population size")
	cmd.Flags().Int("horizon", 14, "Observed days per trajectory")
	cmd.Flags().Float64("epsilon", 0, "Observation mean floor (0 selects the default)")
	cmd.Flags().Int("workers", 0, "Concurrent simulation workers (0 selects the default)")
	cmd.Flags().String("out", "", "Output path (default stdout)")
	return cmd
}
