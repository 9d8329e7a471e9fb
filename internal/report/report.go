// Package report aggregates persisted session records into per-domain
// usage summaries for display.
package report

import (
	"fmt"
	"sort"
	"time"

	"tabtime/internal/session"
)

// DomainTotal is the aggregated usage of one domain.
type DomainTotal struct {
	Domain   string `json:"domain"`
	Favicon  string `json:"favicon,omitempty"`
	TotalMS  int64  `json:"totalMs"`
	Sessions int    `json:"sessions"`
}

// Daily groups the closed sessions that started on the given calendar day
// (in day's location) by domain, sums their durations, and returns the
// totals sorted by time spent descending, domain ascending on ties.
func Daily(sessions []session.Session, day time.Time) []DomainTotal {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	return Between(sessions, start, end)
}

// Between aggregates closed sessions with from <= StartAt < to.
func Between(sessions []session.Session, from, to time.Time) []DomainTotal {
	fromMS, toMS := from.UnixMilli(), to.UnixMilli()

	byDomain := make(map[string]*DomainTotal)
	for _, s := range sessions {
		if !s.Closed() || s.Domain == "" {
			continue
		}
		if s.StartAt < fromMS || s.StartAt >= toMS {
			continue
		}
		t, ok := byDomain[s.Domain]
		if !ok {
			t = &DomainTotal{Domain: s.Domain, Favicon: s.Favicon}
			byDomain[s.Domain] = t
		}
		t.TotalMS += s.Duration()
		t.Sessions++
		if t.Favicon == "" {
			t.Favicon = s.Favicon
		}
	}

	totals := make([]DomainTotal, 0, len(byDomain))
	for _, t := range byDomain {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].TotalMS != totals[j].TotalMS {
			return totals[i].TotalMS > totals[j].TotalMS
		}
		return totals[i].Domain < totals[j].Domain
	})
	return totals
}

// FormatDuration renders a millisecond total as a compact human string
// like "2h 5m" or "45s".
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
