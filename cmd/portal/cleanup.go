package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

var cleanupOpts struct {
	days   int
	dryRun bool
}

var cleanupUploadsCmd = &cobra.Command{
	Use:   "cleanup-uploads",
	Short: "Delete uploaded files no decree refers to",
	Long: `Removes files of the upload directory that are older than --days and are
not referenced by any decree. Use --dry-run to only list them.`,
	RunE: runCleanupUploads,
}

func init() {
	cleanupUploadsCmd.Flags().IntVar(&cleanupOpts.days, "days", 30, "Minimum age in days")
	cleanupUploadsCmd.Flags().BoolVar(&cleanupOpts.dryRun, "dry-run", false, "List files without deleting them")
}

func runCleanupUploads(cmd *cobra.Command, _ []string) error {
	if cleanupOpts.days < 0 {
		return fmt.Errorf("--days must not be negative")
	}
	ctx := cmd.Context()

	repos, _, closeMongo, err := openRepositories(ctx)
	if err != nil {
		return err
	}
	defer closeMongo()

	referenced, err := repos.Decrees.StoredFiles(ctx)
	if err != nil {
		return fmt.Errorf("list referenced files: %w", err)
	}

	store := newStore()
	var files []ports.StoredFile
	if err := store.Walk(func(f ports.StoredFile) error {
		files = append(files, f)
		return nil
	}); err != nil {
		return fmt.Errorf("walk uploads: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -cleanupOpts.days)
	stale := staleFiles(files, referenced, cutoff)

	var freed int64
	removed := 0
	for _, f := range stale {
		if cleanupOpts.dryRun {
			log.Info().Str("path", f.Path).Time("modified", f.ModTime).Msg("would delete")
			freed += f.Size
			continue
		}
		if err := store.Remove(f.Path); err != nil {
			log.Warn().Err(err).Str("path", f.Path).Msg("delete failed")
			continue
		}
		removed++
		freed += f.Size
	}

	log.Info().
		Int("scanned", len(files)).
		Int("stale", len(stale)).
		Int("removed", removed).
		Int64("bytes", freed).
		Bool("dry_run", cleanupOpts.dryRun).
		Msg("cleanup finished")
	return nil
}

// staleFiles keeps the files last modified before cutoff that are not in
// referenced.
func staleFiles(files []ports.StoredFile, referenced []string, cutoff time.Time) []ports.StoredFile {
	keep := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		keep[p] = struct{}{}
	}

	var out []ports.StoredFile
	for _, f := range files {
		if _, ok := keep[f.Path]; ok {
			continue
		}
		if !f.ModTime.Before(cutoff) {
			continue
		}
		out = append(out, f)
	}
	return out
}
