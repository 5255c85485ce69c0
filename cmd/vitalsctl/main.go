package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/config"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/db"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/export"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/logging"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/patient"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/vitals"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

const commandTimeout = 2 * time.Minute

func main() {
	rootCmd := &cobra.Command{
		Use:          "vitalsctl",
		Short:        "Operator commands for the vitals service database",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(nextIDCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(ensureIndexesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session is an open database connection for one command
type session struct {
	database *mongo.Database
	logger   zerolog.Logger
}

// withDatabase loads configuration, connects and runs fn. Logs go to stderr
// so command output on stdout stays scriptable.
func withDatabase(fn func(ctx context.Context, s *session) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, "console", os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	client, database, err := db.Connect(ctx, cfg.MongoURL, cfg.DBName, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	return fn(ctx, &session{database: database, logger: logger})
}

func nextIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-id",
		Short: "Print the patient id the next registration will receive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, s *session) error {
				service := patient.NewService(patient.NewRepository(s.database), nil, nil, s.logger)
				nextID, err := service.NextPatientID(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), nextID)
				return nil
			})
		},
	}
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <patientId>",
		Short: "Write a patient's vitals workbook to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID := args[0]
			return withDatabase(func(ctx context.Context, s *session) error {
				patients := patient.NewService(patient.NewRepository(s.database), nil, nil, s.logger)
				ledger := vitals.NewService(vitals.NewRepository(s.database), nil, nil, s.logger)
				service := export.NewService(patients, ledger, nil, nil, s.logger)

				wb, err := service.ExportVitals(ctx, patientID)
				if err != nil {
					return err
				}

				path := output
				if path == "" {
					path = wb.Filename
				}
				if err := os.WriteFile(path, wb.Content, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d readings to %s\n", wb.Rows, path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <patientId>_vitals.xlsx)")
	return cmd
}

func ensureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the collection indexes the service relies on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, s *session) error {
				if err := db.EnsureIndexes(ctx, s.database); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "indexes ok")
				return nil
			})
		},
	}
}
