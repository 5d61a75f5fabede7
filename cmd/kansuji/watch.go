package main

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kansuji-go/kansuji/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Keep files under the given directories converted",
		Long: `Converts every matching file under the directories once, then rewrites
files again whenever they are created or modified, until interrupted.
File extensions and the debounce delay come from the watch section of
the config file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runWatch(ctx, args)
		},
	}
}

func (a *app) runWatch(ctx context.Context, dirs []string) error {
	debounce, err := a.cfg.DebounceDuration()
	if err != nil {
		return err
	}
	w, err := watch.New(a.conv, a.logger, watch.Options{
		Extensions: a.cfg.Watch.Extensions,
		Debounce:   debounce,
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
		a.convertExisting(w, dir)
	}

	a.logger.Info("watching", zap.Strings("dirs", dirs), zap.Duration("debounce", debounce))
	w.Start(ctx)
	<-ctx.Done()
	a.logger.Info("stopping watcher")
	return nil
}

// convertExisting runs one pass over the files already under dir.
func (a *app) convertExisting(w *watch.Watcher, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !w.Watched(path) {
			return nil
		}
		res := w.ConvertFile(path)
		switch {
		case res.Err != nil:
			a.logger.Warn("convert file", zap.String("path", path), zap.Error(res.Err))
		case res.Changed:
			a.logger.Info("converted file", zap.String("path", path))
		}
		return nil
	})
}
