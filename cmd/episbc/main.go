package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "episbc",
		Short: "Stochastic epidemic simulation and calibration studies",
		Long: `episbc simulates stochastic SIR outbreaks under sampled parameters and
checks posterior approximators with simulation-based calibration.

It generates prior-predictive batches, replays explicit parameter vectors,
and runs full rank-statistic studies with histograms, ECDF confidence
bands, recovery metrics, and uniformity checks.`,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newGenerateCmd(),
		newReplayCmd(),
		newStudyCmd(),
		newServeCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
