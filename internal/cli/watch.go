package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/ColorSeason/internal/emoji"
	"github.com/yildizm/ColorSeason/internal/formatter"
	"github.com/yildizm/ColorSeason/internal/season"
)

var (
	watchOutfits bool
	watchGender  string
	watchSettle  time.Duration
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Analyze images as they appear in a directory",
		Long: `Watch a directory and analyze every JPEG or PNG written into it, for example
the export folder of a photo booth or tethered camera.

A file is analyzed once it has stopped changing for the settle delay. Press
Ctrl+C to stop watching.

Examples:
  colorseason watch ./incoming
  colorseason watch --outfits --settle 2s ~/Pictures/booth`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&watchOutfits, "outfits", false, "fetch matching outfits for each result")
	cmd.Flags().StringVarP(&watchGender, "gender", "g", "all", "outfit filter (all, male, female)")
	cmd.Flags().DurationVar(&watchSettle, "settle", 500*time.Millisecond, "quiet period before a new file is analyzed")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if err := validateWatchDir(dir); err != nil {
		return fmt.Errorf("invalid directory: %w", err)
	}

	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	gender, err := resolveGender(watchGender, cmd.Flag("gender").Changed, cfg)
	if err != nil {
		return err
	}
	f, err := formatter.New(getOutputFormat(cfg), colorEnabled(cfg))
	if err != nil {
		return err
	}
	svc, err := newServices(cfg, watchOutfits)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer cleanupWatcher(watcher)

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "%s Watching directory: %s\n", emoji.GetEmoji("watch"), dir)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := &dirWatcher{
		events: watcher.Events,
		errors: watcher.Errors,
		settle: watchSettle,
		handle: func(ctx context.Context, path string) {
			report := svc.trackImage(ctx, path, gender, 1)
			printReport(cmd.OutOrStdout(), f, report)
		},
	}
	err = w.run(ctx)
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "%s\n", svc.stats.Summary())
	}
	return err
}

// dirWatcher debounces file events and hands settled image files to handle
type dirWatcher struct {
	events <-chan fsnotify.Event
	errors <-chan error
	settle time.Duration
	handle func(ctx context.Context, path string)

	pending map[string]time.Time
}

func (w *dirWatcher) run(ctx context.Context) error {
	w.pending = make(map[string]time.Time)
	interval := w.settle / 2
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nStopping watch...\n")
			}
			return nil

		case event, ok := <-w.events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.record(event, time.Now())

		case err, ok := <-w.errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}

		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				w.handle(ctx, path)
			}
		}
	}
}

// record notes a create or write on an image file; a removal or rename
// forgets it
func (w *dirWatcher) record(event fsnotify.Event, at time.Time) {
	if !isImageFile(event.Name) {
		return
	}
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.pending[event.Name] = at
	}
}

// settled removes and returns the files quiet for at least the settle delay
func (w *dirWatcher) settled(now time.Time) []string {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

func printReport(out io.Writer, f formatter.Formatter, report *formatter.Report) {
	output, err := f.Format([]*formatter.Report{report})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to format result for %s: %v\n", report.Source, err)
		return
	}
	_, _ = out.Write(output)
	if report.Err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", report.Source, season.Message(report.Err))
	}
}

func isImageFile(name string) bool {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// validateWatchDir validates that a path is a directory that can be watched
func validateWatchDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty directory path")
	}

	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}
	return nil
}
