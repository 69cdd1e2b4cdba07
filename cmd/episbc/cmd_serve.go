package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"episbc/adapters/excel"
	"episbc/adapters/httpapi"
	"episbc/adapters/postgres"
	"episbc/adapters/postgres/migrations"
	"episbc/adapters/selfcheck"
	"episbc/app"
	"episbc/internal/config"
	"episbc/internal/metrics"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the JSON HTTP server exposing simulation, calibration, and study
endpoints, with prometheus metrics on /metrics. Requires DATABASE_URL for
study persistence; migrations run at startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := postgres.Connect(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			migrator := migrations.NewMigrator(db.DB)
			if err := migrator.Up(cmd.Context()); err != nil {
				return err
			}

			m := metrics.New(prometheus.DefaultRegisterer)
			simulation := app.NewSimulationService(m)
			study := app.NewStudyService(selfcheck.Factory(), postgres.NewStudyRepository(db), excel.NewReportWriter(), m)

			if cfg.Profiling.Enabled {
				go func() {
					log.Printf("[Server] Profiling server listening on :%s", cfg.Profiling.Port)
					if err := http.ListenAndServe(":"+cfg.Profiling.Port, nil); err != nil {
						log.Printf("[Server] Profiling server failed: %v", err)
					}
				}()
			}

			server := httpapi.NewServer(httpapi.Config{
				Port:           cfg.Server.Port,
				RequestTimeout: cfg.Server.RequestTimeout,
				Study:          cfg.Study,
			}, simulation, study, nil, prometheus.DefaultGatherer)
			return server.Start()
		},
	}
	return cmd
}
