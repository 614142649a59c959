package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/sw/internal/cli"
	"github.com/Veraticus/sw/internal/common"
	"github.com/Veraticus/sw/internal/config"
	"github.com/Veraticus/sw/internal/engine"
	"github.com/Veraticus/sw/internal/model"
	"github.com/Veraticus/sw/internal/ofx"
	"github.com/spf13/cobra"
)

var errNoImportFiles = errors.New("no files found to import")

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Add the transactions of OFX/QFX statements",
		Long: `Import the transactions of OFX or QFX (Quicken) statements exported from your bank.
Each transaction becomes one movement; the ledger is written once at the end.`,
		Example: `  # Import one statement
  sw import ~/Downloads/checking_jan.qfx

  # Preview every statement in a directory
  sw import --dry-run ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "show what would be added without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	slog.Info("Importing statements", "file_count", len(files), "dry_run", dryRun)

	drafts, err := parseStatements(ctx, files, cli.NewProgress(cmd.ErrOrStderr(), len(files), "Reading statements..."))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(drafts) == 0 {
		_, err = fmt.Fprintln(out, cli.FormatWarning("No transactions found"))
		return err
	}

	if dryRun {
		return printDrafts(out, drafts)
	}

	cfg, err := config.LoadStoreConfig()
	if err != nil {
		return err
	}

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := storage.Close(); closeErr != nil {
			slog.Error("failed to close storage", "error", closeErr)
		}
	}()

	ids, err := engine.NewSession(storage, nil).Import(ctx, drafts)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d movements (ids %d-%d)", len(ids), ids[0], ids[len(ids)-1])))
	return err
}

// expandFiles resolves glob patterns; a pattern matching nothing is kept
// when it names an existing file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		pattern = config.ExpandPath(pattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, common.InvalidArgument("invalid pattern %s: %v", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}

	if len(files) == 0 {
		return nil, errNoImportFiles
	}
	return files, nil
}

// parseStatements reads every file. Any unreadable statement aborts the
// import so the ledger is never left half imported.
func parseStatements(ctx context.Context, files []string, progress *cli.Progress) ([]model.Draft, error) {
	parser := ofx.NewParser()

	var drafts []model.Draft
	for _, path := range files {
		parsed, err := parseStatement(ctx, parser, path)
		if err != nil {
			return nil, err
		}
		if len(parsed) == 0 {
			slog.Warn("No transactions found in file", "file", filepath.Base(path))
		}
		slog.Debug("Processed file", "file", filepath.Base(path), "transactions_found", len(parsed))

		drafts = append(drafts, parsed...)
		progress.Step()
	}
	return drafts, nil
}

func parseStatement(ctx context.Context, parser *ofx.Parser, path string) ([]model.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	drafts, err := parser.ParseFile(ctx, f)
	if err != nil {
		return nil, common.NewUserError("cannot read statement "+path, err)
	}
	return drafts, nil
}

func printDrafts(w io.Writer, drafts []model.Draft) error {
	if _, err := fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf("Dry run: %d movements would be added", len(drafts)))); err != nil {
		return err
	}
	for _, d := range drafts {
		date := common.FormatTimestamp(d.Timestamp, time.Local)
		if _, err := fmt.Fprintf(w, "%16s | %8.2f | %s\n", date, d.Amount, d.Note); err != nil {
			return err
		}
	}
	return nil
}
