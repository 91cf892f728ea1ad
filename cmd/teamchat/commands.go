package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"teamchat/internal/app"
	"teamchat/internal/config"
	"teamchat/internal/logger"
	"teamchat/internal/repositories"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "teamchat",
		Short:         "Team chat with task proposals and a task board",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML config file")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	root.AddCommand(
		newServeCmd(load),
		newWorkerCmd(load),
		newDigestCmd(load),
		newReconcileCmd(load),
		newMigrateCmd(load),
	)
	return root
}

type configLoader func() (*config.Config, error)

// withApp builds the application, runs fn and releases every connection.
func withApp(ctx context.Context, load configLoader, fn func(*app.App) error) error {
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	return fn(a)
}

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), load, func(a *app.App) error {
				return a.Serve(cmd.Context())
			})
		},
	}
}

func newWorkerCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Deliver queued notification emails",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), load, func(a *app.App) error {
				return a.RunWorker(cmd.Context())
			})
		},
	}
}

func newDigestCmd(load configLoader) *cobra.Command {
	var teamID int64
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the daily task digest (all teams unless --team is set)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), load, func(a *app.App) error {
				ctx := cmd.Context()
				if teamID != 0 {
					res, err := a.Digests.SendDaily(ctx, teamID)
					if err != nil {
						return err
					}
					return printJSON(cmd, res)
				}
				res, err := a.Digests.SendDailyAll(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			})
		},
	}
	cmd.Flags().Int64Var(&teamID, "team", 0, "only this team")
	return cmd
}

func newReconcileCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Create missing tasks for accepted proposals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), load, func(a *app.App) error {
				res, err := a.Reconcile.Run(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			})
		},
	}
}

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Setup(cfg)
			ctx := cmd.Context()

			db, err := app.OpenDB(ctx, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			version, err := repositories.Migrate(ctx, db)
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "database migrated", "version", version)
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
