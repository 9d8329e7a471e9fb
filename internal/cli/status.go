package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"tabtime/internal/report"
	"tabtime/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string            `json:"version"`
	DatabasePath      string            `json:"database_path"`
	DatabaseSizeBytes int64             `json:"database_size_bytes"`
	TotalSessions     int               `json:"total_sessions"`
	MaxSessions       int               `json:"max_sessions"`
	OldestSession     string            `json:"oldest_session,omitempty"`
	NewestSession     string            `json:"newest_session,omitempty"`
	TopDomains        []domainTotalJSON `json:"top_domains"`
}

type domainTotalJSON struct {
	Domain  string `json:"domain"`
	TotalMS int64  `json:"total_ms"`
	Count   int    `json:"sessions"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, kv, db, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	defer kv.Close()

	dbPath, err := cfg.DBPath()
	if err != nil {
		return err
	}

	return c.executeWithStore(store, dbPath, cfg.Tracker.MaxSessions)
}

// executeWithStore runs status against a provided store (used by tests).
func (c *StatusCommand) executeWithStore(store *storage.SessionStore, dbPath string, maxSessions int) error {
	ctx := context.Background()

	sessions, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	var dbSize int64
	if info, err := os.Stat(dbPath); err == nil {
		dbSize = info.Size()
	}

	var oldest, newest string
	if len(sessions) > 0 {
		oldest = time.UnixMilli(sessions[0].StartAt).Format(time.RFC3339)
		newest = time.UnixMilli(sessions[len(sessions)-1].StartAt).Format(time.RFC3339)
	}

	// All-time top domains by total time.
	totals := report.Between(sessions, time.UnixMilli(0), time.Now().AddDate(0, 0, 1))
	if len(totals) > 5 {
		totals = totals[:5]
	}

	if c.globals != nil && c.globals.JSON {
		out := statusJSON{
			Version:           c.version,
			DatabasePath:      dbPath,
			DatabaseSizeBytes: dbSize,
			TotalSessions:     len(sessions),
			MaxSessions:       maxSessions,
			OldestSession:     oldest,
			NewestSession:     newest,
			TopDomains:        []domainTotalJSON{},
		}
		for _, t := range totals {
			out.TopDomains = append(out.TopDomains, domainTotalJSON{
				Domain: t.Domain, TotalMS: t.TotalMS, Count: t.Sessions,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("tabtime Status")
	fmt.Println("==============")
	fmt.Printf("Version:   %s\n", c.version)
	fmt.Printf("Database:  %s (%s)\n", dbPath, formatBytes(dbSize))
	fmt.Printf("Sessions:  %d / %d retained\n", len(sessions), maxSessions)
	if oldest != "" {
		fmt.Printf("Oldest:    %s\n", oldest)
		fmt.Printf("Newest:    %s\n", newest)
	}
	if len(totals) > 0 {
		fmt.Println("Top domains:")
		for _, t := range totals {
			fmt.Printf("  %-30s %10s  (%d sessions)\n",
				t.Domain, report.FormatDuration(t.TotalMS), t.Sessions)
		}
	}
	return nil
}
