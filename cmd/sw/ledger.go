package main

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/Veraticus/sw/internal/cli"
	"github.com/Veraticus/sw/internal/common"
	"github.com/Veraticus/sw/internal/config"
	"github.com/Veraticus/sw/internal/engine"
	"github.com/Veraticus/sw/internal/filter"
	"github.com/Veraticus/sw/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func addLedgerFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("delete", "d", 0, "delete the movement with this id")
	cmd.Flags().StringArrayP("from", "f", nil, "only movements at or after this date")
	cmd.Flags().StringArrayP("to", "t", nil, "only movements at or before this date")
	cmd.Flags().StringArrayP("match", "e", nil, "only movements whose note contains this text (repeatable, any may match)")
	cmd.Flags().StringArrayP("exclude", "x", nil, "hide movements whose note contains this text (repeatable)")
	cmd.Flags().IntP("limit", "l", config.DefaultDisplayLimit, "movements to list and partially total (0 = all)")

	_ = viper.BindPFlag("display.limit", cmd.Flags().Lookup("limit"))
}

// addArgs accepts either nothing or a full <date> <amount> <note> triple.
func addArgs(_ *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 3 {
		return common.InvalidArgument("expected <date> <amount> <note>, got %d argument(s)", len(args))
	}
	return nil
}

func runLedger(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	req, err := buildRequest(cmd, args, time.Now)
	if err != nil {
		return err
	}

	cfg, err := config.LoadStoreConfig()
	if err != nil {
		return err
	}
	req.Limit = cfg.Limit

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := storage.Close(); closeErr != nil {
			slog.Error("failed to close storage", "error", closeErr)
		}
	}()

	session := engine.NewSession(storage, cli.NewTableRenderer(cmd.OutOrStdout(), time.Local))
	result, err := session.Run(ctx, req)
	if err != nil {
		return err
	}

	if req.DeleteID != 0 {
		slog.Info("Delete finished", "id", req.DeleteID, "removed", result.Deleted)
	}
	return nil
}

// buildRequest validates the command line before anything touches the store.
func buildRequest(cmd *cobra.Command, args []string, now func() time.Time) (engine.Request, error) {
	var req engine.Request

	parseDate := func(s string) (int64, error) {
		return common.ParseTimestamp(s, now, time.Local)
	}

	if cmd.Flags().Changed("delete") {
		id, _ := cmd.Flags().GetInt("delete")
		if id <= 0 {
			return req, common.InvalidArgument("movement id must be positive, got %d", id)
		}
		req.DeleteID = id
		if len(args) > 0 {
			slog.Warn("Ignoring movement to add on a delete run")
		}
		return req, nil
	}

	from, _ := cmd.Flags().GetStringArray("from")
	to, _ := cmd.Flags().GetStringArray("to")
	match, _ := cmd.Flags().GetStringArray("match")
	exclude, _ := cmd.Flags().GetStringArray("exclude")

	set, err := filter.Build(from, to, match, exclude, parseDate)
	if err != nil {
		return req, err
	}
	req.Filters = set

	if len(args) == 3 {
		draft, err := parseMovement(args, parseDate)
		if err != nil {
			return req, err
		}
		req.Add = &draft
	}

	return req, nil
}

func parseMovement(args []string, parseDate func(string) (int64, error)) (model.Draft, error) {
	ts, err := parseDate(args[0])
	if err != nil {
		return model.Draft{}, err
	}

	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return model.Draft{}, common.InvalidArgument("bad amount %q", args[1])
	}

	draft, err := model.NewDraft(ts, amount, args[2])
	if err != nil {
		return model.Draft{}, fmt.Errorf("%w: %w", common.ErrInvalidArgument, err)
	}
	return draft, nil
}
