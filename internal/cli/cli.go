package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/jurisdiction-links/internal/logger"
	"github.com/pfrederiksen/jurisdiction-links/internal/pipeline"
	"github.com/pfrederiksen/jurisdiction-links/internal/scraper"
	"github.com/pfrederiksen/jurisdiction-links/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

const (
	EnvOutfile  = "JURISDICTION_LINKS_OUTFILE"
	EnvMetadata = "JURISDICTION_LINKS_METADATA"
	EnvDebug    = "JURISDICTION_LINKS_DEBUG"

	DefaultOutfile  = "dataguidance.csv"
	DefaultMetadata = "../metadata.csv"
)

var (
	flagOutfile  string
	flagMetadata string
	flagDebug    bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jurisdiction-links",
		Short: "Collect regulator and regulation links for each jurisdiction",
		Long: `Scrapes the dataguidance.com page of every jurisdiction in the metadata
file and records its regulator and regulation links. The output file is
rewritten after each jurisdiction so it stays current during long runs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	cmd.Flags().StringVar(&flagOutfile, "outfile", envString(EnvOutfile, DefaultOutfile), "Output CSV file (env: "+EnvOutfile+")")
	cmd.Flags().StringVar(&flagMetadata, "metadata", envString(EnvMetadata, DefaultMetadata), "Input metadata CSV with a state_name column (env: "+EnvMetadata+")")
	cmd.Flags().BoolVar(&flagDebug, "debug", envBool(EnvDebug), "Enable debug logging (env: "+EnvDebug+")")

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	level := logger.LevelInfo
	if flagDebug {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	logger.Info("Running jurisdiction-links", logger.Fields{
		"metadata": flagMetadata,
		"outfile":  flagOutfile,
	})
	logger.Debug("Debug mode enabled", nil)

	table, err := storage.LoadTable(flagMetadata)
	if err != nil {
		return fmt.Errorf("loading metadata: %w", err)
	}

	store, err := storage.New(flagOutfile)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := pipeline.New(scraper.New(), store).Run(ctx, table)

	logger.Debug("Run metrics", logger.Fields{"metrics": logger.DefaultMetrics().GetSnapshot()})

	if summary != nil {
		if err := WriteSummary(cmd.OutOrStdout(), summary, store.Path()); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("scraping jurisdictions: %w", runErr)
	}
	return nil
}

// loadEnvFile loads .env into the environment if present. Variables that are
// already set win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// Execute runs the CLI
func Execute() {
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := NewRootCmd().Execute(); err != nil {
		logger.Error("Run failed", nil, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
