package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"stircraft/internal/config"
	appdb "stircraft/internal/db"
	"stircraft/internal/importer"
	applog "stircraft/internal/log"
	"stircraft/internal/recipes"
)

var (
	loadConfigFunc   = config.Load
	openDatabaseFunc = appdb.Configure
)

type importFlags struct {
	limit   int
	letters string
	clear   bool
	file    string
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		applog.Warn(context.Background(), "failed to load .env file", "error", err)
	}
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &importFlags{}
	cmd := &cobra.Command{
		Use:           "import_cocktails",
		Short:         "Import cocktails from the public recipe API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runImport(cmd, flags)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "import failed: %v\n", err)
			}
			return err
		},
	}

	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Maximum number of records to examine (0 means all)")
	cmd.Flags().StringVar(&flags.letters, "letters", importer.DefaultLetters, "First letters of the drinks to fetch")
	cmd.Flags().BoolVar(&flags.clear, "clear", false, "Delete previously imported data before importing")
	cmd.Flags().StringVar(&flags.file, "file", "", "Read records from a JSON file instead of the API")
	return cmd
}

func runImport(cmd *cobra.Command, flags *importFlags) error {
	ctx := cmd.Context()
	if flags.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	cfg, err := loadConfigFunc()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}

	database, err := openDatabaseFunc(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer closeDatabase(ctx, database)

	source, err := buildSource(cfg.Import, flags.file)
	if err != nil {
		return err
	}

	pipeline := importer.NewPipeline(recipes.New(database), source, importer.Config{
		SystemEmail: cfg.Import.SystemEmail,
		SystemName:  cfg.Import.SystemName,
	})
	report, err := pipeline.Run(ctx, importer.Options{
		Limit:   flags.limit,
		Letters: flags.letters,
		Clear:   flags.clear,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.String())
	return nil
}

func buildSource(cfg config.ImportConfig, file string) (importer.Source, error) {
	if path := strings.TrimSpace(file); path != "" {
		source, err := importer.NewFileSource(path)
		if err != nil {
			return nil, fmt.Errorf("open record file: %w", err)
		}
		return source, nil
	}

	client, err := importer.NewClient(importer.ClientConfig{
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout,
		RequestInterval: cfg.RequestInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}
	return client, nil
}

func closeDatabase(ctx context.Context, database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		applog.Warn(ctx, "failed to close database", "error", err)
	}
}
