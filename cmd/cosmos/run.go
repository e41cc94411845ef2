package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/living-cosmos/engine"
	"github.com/lixenwraith/living-cosmos/observability"
	"github.com/lixenwraith/living-cosmos/terminal"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the scene in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			// the scene owns the terminal, so logs go to the file only
			observability.Initialize(a.cfg.Logger, nil)
			defer observability.Sync()
			logger := observability.GetLogger()

			scr, err := terminal.New()
			if err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					scr.Fini()
					logger.Error("crashed", zap.Any("panic", r))
					fmt.Fprintf(os.Stderr, "\nCOSMOS CRASHED: %v\n%s\n", r, debug.Stack())
					os.Exit(1)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting scene", zap.String("version", Version))
			app := engine.New(scr, engine.Options{
				Scene:  a.cfg.Scene,
				Audio:  a.cfg.Audio,
				Player: a.cfg.Player,
				Logger: logger,
			})
			return app.Run(ctx)
		},
	}
	cmd.Flags().Int64("scene.seed", 12345, "layout seed")
	cmd.Flags().Bool("scene.intro", true, "play the opening sequence")
	cmd.Flags().String("scene.api_base_url", "", "base URL of a running serve command")
	cmd.Flags().Bool("audio.enabled", true, "play tones")
	cmd.Flags().String("audio.backend", "speaker", "speaker or pipe")
	return cmd
}
