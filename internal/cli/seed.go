package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/library"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load catalog fixtures from a YAML file",
		Long: `Load authors, publishers, genres and books from a YAML file.

Books refer to their author, publisher and genres by name. Entries that
already exist are skipped, so the same file can be applied repeatedly.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, rootOpts, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "fixtures file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSeed(cmd *cobra.Command, rootOpts *RootOptions, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()

	fixtures, err := library.LoadFixtures(f)
	if err != nil {
		return err
	}

	cfg := rootOpts.loadConfig()
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := library.NewService(db.DB, library.OptionsFromConfig(cfg.Library))
	report, err := svc.Seed(cmd.Context(), fixtures)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d records, skipped %d existing\n", report.Created, report.Skipped)
	return nil
}
