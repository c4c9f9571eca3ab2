package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentskills/skillcheck/pkg/logger"
	"github.com/agentskills/skillcheck/pkg/presenter"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	Path         string
	DebounceTime int
	Quiet        bool
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		Path:         "skills",
		DebounceTime: 500,
		Quiet:        false,
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-validate skills whenever the tree changes",
	Long: `Continuously monitors the skill tree and re-runs validation whenever
a markdown file is created, modified, or removed. Useful while authoring:
the report refreshes as you edit instead of waiting for the pre-commit hook.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getWatchConfigFromFlags(cmd, args)
		presenter.SetQuiet(config.Quiet)

		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Warning("Cancellation requested, shutting down...")
			cancel()
		}()

		if err := runWatchMode(ctx, config); err != nil {
			presenter.Error(err, "Watch mode failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	watchCmd.Flags().BoolP("quiet", "q", defaults.Quiet, "Suppress non-error output")
	rootCmd.AddCommand(watchCmd)
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command, args []string) *WatchConfig {
	config := NewWatchConfig()
	if len(args) > 0 {
		config.Path = args[0]
	}
	if debounce, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounce
	}
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
		config.Quiet = quiet
	}
	return config
}

func runWatchMode(ctx context.Context, config *WatchConfig) error {
	log := logger.G(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, config.Path); err != nil {
		return err
	}

	validateConfig := &ValidateConfig{Path: config.Path, Quiet: config.Quiet}
	revalidate := func() {
		rep, err := runValidation(ctx, validateConfig)
		if err != nil {
			presenter.Error(err, "Validation failed")
			return
		}
		printReport(rep)
		presenter.Separator()
	}

	presenter.Info("Watching " + config.Path + " for changes (Ctrl+C to stop)")
	revalidate()

	debounce := time.Duration(config.DebounceTime) * time.Millisecond
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New skill or references directories need their own watch
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchDirs(watcher, event.Name); err != nil {
						log.WithError(err).Warn("failed to watch new directory")
					}
				}
			}
			if !relevantChange(event) {
				continue
			}
			log.WithField("file", event.Name).WithField("op", event.Op.String()).Debug("change detected")
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("file watcher error")

		case <-timer.C:
			revalidate()
		}
	}
}

// relevantChange filters watcher events down to markdown content changes
// and directory-level add/remove.
func relevantChange(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if strings.HasSuffix(event.Name, ".md") {
		return true
	}
	if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		return true
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

// addWatchDirs registers a directory and all of its subdirectories with the
// watcher.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}
