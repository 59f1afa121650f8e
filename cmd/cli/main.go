package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gotitanic/adapters/excel"
	"gotitanic/app"
	domain "gotitanic/domain/analysis"
	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/analysis"
	"gotitanic/internal/config"
	"gotitanic/internal/container"
	"gotitanic/internal/migration"
	"gotitanic/internal/report"
	"gotitanic/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gotitanic-cli",
		Short:         "Passenger manifest import and survival analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newSeedCmd(),
		newAnalyzeCmd(),
		newEstimateCmd(),
		newDistributionCmd(),
		newMigrateCmd(),
		newGenerateCmd(),
	)
	return rootCmd
}

func newSeedCmd() *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Replace stored passengers with the rows of a CSV, XLSX or JSON manifest",
		Long: `Import a passenger manifest into the configured store. Rows failing
validation are listed and skipped; the remaining rows replace the stored set.

Example: gotitanic-cli seed passengers.csv --rebuild`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.Import(cmd.Context(), excel.NewPassengerReader(excel.DefaultReaderConfig(args[0])))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, rejected := range result.Rejected {
				fmt.Fprintf(out, "row %d rejected: %s\n", rejected.Row, rejected.Reason)
			}
			fmt.Fprintf(out, "seed completed: %d registered, %d errors\n", len(result.Accepted), len(result.Rejected))

			if rebuild {
				snapshot, err := svc.Rebuild(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "snapshot %s published\n", snapshot.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Build and store a snapshot after the import")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var file, format, selector string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build a snapshot and print it",
		Long: `Build an analysis snapshot from the configured store, or from a manifest
file with --file, and print it as JSON, markdown or HTML.

Example: gotitanic-cli analyze --file passengers.csv --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(cmd.Context(), file)
			if err != nil {
				return err
			}
			defer cleanup()

			snapshot, err := svc.Rebuild(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				if selector == "" {
					return writeJSON(out, snapshot)
				}
				sel, err := domain.ParseSelector(selector)
				if err != nil {
					return err
				}
				section, err := snapshot.Select(sel)
				if err != nil {
					return err
				}
				return writeJSON(out, section)
			}

			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			body, err := report.Render(snapshot, f)
			if err != nil {
				return err
			}
			_, err = out.Write(body)
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Analyze a manifest file instead of the configured store")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, markdown or html")
	cmd.Flags().StringVar(&selector, "selector", "", "Print one section (ages, classes, sexes) in json format")
	return cmd
}

// filterFlags binds the subset flags shared by estimate and distribution
type filterFlags struct {
	sex, class     string
	ageMin, ageMax float64
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sex, "sex", "", "Restrict to female or male")
	cmd.Flags().StringVar(&f.class, "class", "", "Restrict to class 1, 2 or 3")
	cmd.Flags().Float64Var(&f.ageMin, "age-min", 0, "Inclusive lower age bound")
	cmd.Flags().Float64Var(&f.ageMax, "age-max", 0, "Inclusive upper age bound")
}

func (f *filterFlags) filter(cmd *cobra.Command) (domain.Filter, error) {
	var filter domain.Filter
	if f.sex != "" {
		sex, err := passenger.ParseSex(f.sex)
		if err != nil {
			return filter, err
		}
		filter.Sex = &sex
	}
	if f.class != "" {
		class, err := passenger.ParseClass(f.class)
		if err != nil {
			return filter, err
		}
		filter.Class = &class
	}
	if cmd.Flags().Changed("age-min") {
		filter.AgeMin = &f.ageMin
	}
	if cmd.Flags().Changed("age-max") {
		filter.AgeMax = &f.ageMax
	}
	return filter, filter.Validate()
}

func newEstimateCmd() *cobra.Command {
	var file string
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the survival ratio of a passenger subset",
		Long: `Estimate the survival ratio, with a 95% Wilson interval, of the passengers
matching the given filters.

Example: gotitanic-cli estimate --sex female --class 3 --age-max 18`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.filter(cmd)
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(cmd.Context(), file)
			if err != nil {
				return err
			}
			defer cleanup()

			// Queries answer from the published snapshot's records
			if file != "" {
				if _, err := svc.Rebuild(cmd.Context()); err != nil {
					return err
				}
			}

			ratio, err := svc.EstimateOutcomeRatio(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ratio)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read passengers from a manifest file instead of the configured store")
	flags.bind(cmd)
	return cmd
}

func newDistributionCmd() *cobra.Command {
	var file, attribute string
	var width, rangeMin, rangeMax float64
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Print the distribution of age or fare over a passenger subset",
		Long: `Print the raw or bucketed distribution of a numeric attribute.

Example: gotitanic-cli distribution --attribute age --width 10 --max 80 --class 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attr, err := analysis.ParseAttribute(attribute)
			if err != nil {
				return err
			}
			filter, err := flags.filter(cmd)
			if err != nil {
				return err
			}
			var binning *domain.Binning
			if width > 0 {
				binning = &domain.Binning{Width: width, RangeMin: rangeMin, RangeMax: rangeMax}
			}

			svc, cleanup, err := openService(cmd.Context(), file)
			if err != nil {
				return err
			}
			defer cleanup()

			// Queries answer from the published snapshot's records
			if file != "" {
				if _, err := svc.Rebuild(cmd.Context()); err != nil {
					return err
				}
			}

			dist, err := svc.Distribution(cmd.Context(), attr, filter, binning)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dist)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read passengers from a manifest file instead of the configured store")
	cmd.Flags().StringVar(&attribute, "attribute", "age", "Attribute: age or fare")
	cmd.Flags().Float64Var(&width, "width", 0, "Bucket width; 0 prints raw values")
	cmd.Flags().Float64Var(&rangeMin, "min", 0, "Lower edge of the first bucket")
	cmd.Flags().Float64Var(&rangeMax, "max", 80, "Upper edge of the bucket range")
	flags.bind(cmd)
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the passengers and analyses tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.InMemory() {
				return fmt.Errorf("DATABASE_URL is required for migrate")
			}

			db, err := container.OpenDatabase(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			migrator := migration.NewRunner()
			if err := migrator.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (schema %s)\n", migrator.Version())
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var rows int
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Write a reproducible synthetic manifest",
		Long: `Generate a synthetic passenger manifest with shares and survival rates
close to the 1912 sailing. The format follows the extension: .csv or .xlsx.

Example: gotitanic-cli generate passengers.xlsx --rows 891 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := testkit.DefaultManifestConfig()
			config.Rows = rows
			config.Seed = seed

			manifest, err := testkit.NewManifestGenerator(config).Generate()
			if err != nil {
				return err
			}
			if err := testkit.WriteManifest(args[0], manifest); err != nil {
				return fmt.Errorf("failed to write manifest: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "manifest written: %s (%d rows)\n", args[0], len(manifest.Rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 891, "Number of passengers")
	cmd.Flags().Int64Var(&seed, "seed", 42, "RNG seed; equal seeds produce equal manifests")
	return cmd
}

// openService wires the analysis service. With a file the records are
// imported into a throwaway in-memory store; otherwise the configured store
// is used.
func openService(ctx context.Context, file string) (*app.AnalysisService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if file != "" {
		cfg.Database.URL = ""
	}
	internal.DefaultLogger = internal.NewLogger(cfg.Level())

	c, err := container.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Init(ctx); err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = c.Shutdown(context.Background()) }

	if file != "" {
		if _, err := c.AnalysisService.Import(ctx, excel.NewPassengerReader(excel.DefaultReaderConfig(file))); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return c.AnalysisService, cleanup, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
