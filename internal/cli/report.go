package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"tabtime/internal/report"
	"tabtime/internal/storage"
)

// Execute implements the go-flags Commander interface for ReportCommand.
func (c *ReportCommand) Execute(args []string) error {
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

	return c.executeWithStore(store)
}

// executeWithStore runs the report against a provided store (used by tests).
func (c *ReportCommand) executeWithStore(store *storage.SessionStore) error {
	day, err := parseDay(c.Day)
	if err != nil {
		return err
	}

	sessions, err := store.Load(context.Background())
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	totals := report.Daily(sessions, day)
	if c.Limit > 0 && len(totals) > c.Limit {
		totals = totals[:c.Limit]
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"day":     day.Format("2006-01-02"),
			"domains": totals,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Time spent on %s\n", day.Format("2006-01-02"))
	if len(totals) == 0 {
		fmt.Println("  no sessions recorded")
		return nil
	}
	for _, t := range totals {
		fmt.Printf("  %-30s %10s  (%d sessions)\n",
			t.Domain, report.FormatDuration(t.TotalMS), t.Sessions)
	}
	return nil
}
