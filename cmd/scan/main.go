// Command scan runs the library scanner outside the HTTP server process,
// for cron-driven or manually triggered re-indexing.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sonora-music/sonora/internal/config"
	"github.com/sonora-music/sonora/internal/scanner"
	"github.com/sonora-music/sonora/internal/store"
)

var (
	flagDB     string
	flagFolder string
	flagWatch  bool
)

var rootCmd = &cobra.Command{
	Use:   "sonora-scan",
	Short: "Scan configured music folders into the Sonora database",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&flagDB, "db", config.Env("DATABASE_URL", config.DefaultDSN), "Postgres DSN")
	rootCmd.Flags().StringVar(&flagFolder, "folder", "", "Music folder id to scan (default: all folders)")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "After the initial scan, watch folder paths and rescan on change")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.DatabaseURL = flagDB

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer db.Close()

	svc := scanner.New(db, cfg)

	if err := runOnce(ctx, svc, db); err != nil {
		return err
	}

	if !flagWatch {
		return nil
	}
	return watch(ctx, svc, db)
}

func runOnce(ctx context.Context, svc *scanner.Service, db *store.Store) error {
	if flagFolder == "" {
		return svc.ScanAll(ctx)
	}
	folderID, err := uuid.Parse(flagFolder)
	if err != nil {
		return fmt.Errorf("parse --folder: %w", err)
	}
	folder, err := db.GetMusicFolder(ctx, folderID)
	if err != nil {
		return fmt.Errorf("get music folder: %w", err)
	}
	if folder == nil {
		return fmt.Errorf("no such music folder: %s", flagFolder)
	}
	svc.ScanFolder(folder.ID.String())
	return nil
}

// watch registers fsnotify watchers on every configured folder's local
// path (S3-backed folders have nothing to watch) and triggers a debounced
// re-scan of the whole library on any create, write, rename or remove
// event.
func watch(ctx context.Context, svc *scanner.Service, db *store.Store) error {
	folders, err := db.ListAllMusicFolders(ctx)
	if err != nil {
		return fmt.Errorf("list music folders: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, f := range folders {
		if f.FSType != store.FSLocal {
			continue
		}
		if err := addDir(watcher, f.Path); err != nil {
			slog.Warn("watch folder failed", "folder", f.Name, "err", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		slog.Info("no local folders to watch; exiting")
		return nil
	}
	slog.Info("watching music folders", "count", watched)

	var rescan <-chan time.Time
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			rescan = time.After(5 * time.Second)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)

		case <-rescan:
			rescan = nil
			if err := svc.ScanAll(ctx); err != nil {
				slog.Error("rescan failed", "err", err)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func addDir(w *fsnotify.Watcher, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			_ = addDir(w, dir+"/"+e.Name())
		}
	}
	return nil
}
