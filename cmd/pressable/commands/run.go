package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agiangrant/pressable"
	"github.com/agiangrant/pressable/internal/teahost"
	"github.com/agiangrant/pressable/internal/termhost"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

func newRunCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Show the configured buttons in the terminal (tcell)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := pressable.NewApp(e.config)
			if err != nil {
				return err
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return termhost.New(app, screen, e.logger).Run(ctx)
		},
	}
}

func newTeaCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tea",
		Short: "Show the configured buttons in a Bubble Tea program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := pressable.NewApp(e.config)
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return teahost.Run(ctx, app, e.logger)
		},
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
