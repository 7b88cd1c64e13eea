// Command importer loads property financial workbooks into PostgreSQL.
//
// Usage:
//
//	importer --file uploads/Master_Sheet.xlsx
//	importer --test-connection
//	importer --clean
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/FACorreiaa/propintel/pkg/config"
)

func main() {
	var (
		file           = flag.String("file", "uploads/Master_Sheet.xlsx", "path to the XLSX workbook to import")
		testConnection = flag.Bool("test-connection", false, "verify database connectivity and exit")
		clean          = flag.Bool("clean", false, "delete all imported data (asks for confirmation)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger, *file, *testConnection, *clean); err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, file string, testConnection, clean bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	deps, err := InitDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Cleanup()

	switch {
	case testConnection:
		// InitDependencies already pinged the database.
		logger.Info("database connection ok", "host", cfg.Database.Host, "database", cfg.Database.Database)
		return nil
	case clean:
		return cleanDatabase(ctx, deps)
	default:
		return importWorkbook(ctx, deps, file)
	}
}

func importWorkbook(ctx context.Context, deps *Dependencies, file string) error {
	summary, err := deps.Importer.ImportFile(ctx, file)
	if err != nil {
		return err
	}

	if summary.RecordsFailed > 0 {
		deps.Logger.Warn("import finished with failed records",
			"import_id", summary.ImportID,
			"records_failed", summary.RecordsFailed,
		)
	}
	return nil
}

// cleanDatabase truncates all imported data after a typed confirmation.
func cleanDatabase(ctx context.Context, deps *Dependencies) error {
	fmt.Fprintln(os.Stderr, "This will permanently delete ALL imported properties and records.")
	fmt.Fprint(os.Stderr, "Type DELETE to confirm: ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "DELETE" {
		deps.Logger.Info("clean aborted")
		return nil
	}

	// Children first so the property FK never blocks the delete.
	tables := []string{
		"propintel.work",
		"propintel.money_in",
		"propintel.money_out",
		"propintel.properties",
	}
	for _, table := range tables {
		tag, err := deps.DB.Pool.Exec(ctx, "DELETE FROM "+table)
		if err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
		deps.Logger.Info("cleaned table", "table", table, "rows_deleted", tag.RowsAffected())
	}
	return nil
}
