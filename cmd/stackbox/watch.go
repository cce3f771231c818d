// Watch command for the stackbox CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/stackbox/pkg/config"
	"github.com/chazu/stackbox/pkg/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <script>",
	Short: "Rebuild the box every time a parameter script changes",
	Long: `Build once from the script, then rebuild whenever it is saved. A
failed rebuild is logged and leaves the previous files in place. Stop with
Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings.Set(config.KeyScript, args[0])
	rebuild(ctx, args[0])

	w, err := watch.New(args[0], rebuild, watch.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

// rebuild reloads every setting, so edits to the config file are picked
// up along with the script.
func rebuild(ctx context.Context, path string) {
	c, err := loadConfig()
	if err != nil {
		logger.Error("reload failed", zap.String("script", path), zap.Error(err))
		return
	}
	files, err := buildAndExport(ctx, newKernel(c), c)
	if err != nil {
		logger.Error("rebuild failed", zap.String("script", path), zap.Error(err))
		return
	}
	logger.Info("rebuilt", zap.Strings("files", files))
}
