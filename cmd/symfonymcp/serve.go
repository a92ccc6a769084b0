package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dejo1307/symfonymcp/internal/logger"
	"github.com/dejo1307/symfonymcp/internal/server"
	"github.com/dejo1307/symfonymcp/internal/source"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, svc, err := setup()
	if err != nil {
		return err
	}
	defer logger.Cleanup()
	log := logger.ComponentLogger("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Schema.Watch {
		w, err := source.NewWatcher(svc.Cache())
		if err != nil {
			log.Warnw("override watching disabled", logger.FieldError, err)
		} else {
			defer w.Close()
			w.Start(ctx)
			svc.SetWatcher(w)
		}
	}

	log.Infow("serving", "project_root", cfg.ProjectRoot, "override", cfg.Schema.OverridePath)
	return server.New(svc).Run(ctx)
}
