package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabtime/internal/session"
)

func sessionAt(domain string, start time.Time, durMS int64) session.Session {
	return session.Session{
		Domain:  domain,
		StartAt: start.UnixMilli(),
		EndAt:   start.UnixMilli() + durMS,
		TabID:   1,
	}
}

func TestDaily_GroupsAndSorts(t *testing.T) {
	day := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	sessions := []session.Session{
		sessionAt("example.com", day.Add(9*time.Hour), 60_000),
		sessionAt("github.com", day.Add(10*time.Hour), 300_000),
		sessionAt("example.com", day.Add(11*time.Hour), 120_000),
		sessionAt("news.ycombinator.com", day.Add(12*time.Hour), 300_000),
	}

	totals := Daily(sessions, day)
	require.Len(t, totals, 3)

	// github.com and news.ycombinator.com tie on time; alphabetical order
	// breaks the tie.
	assert.Equal(t, "github.com", totals[0].Domain)
	assert.Equal(t, "news.ycombinator.com", totals[1].Domain)
	assert.Equal(t, "example.com", totals[2].Domain)

	assert.Equal(t, int64(180_000), totals[2].TotalMS)
	assert.Equal(t, 2, totals[2].Sessions)
}

func TestDaily_FiltersOtherDays(t *testing.T) {
	day := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	sessions := []session.Session{
		sessionAt("example.com", day.Add(-time.Hour), 60_000),   // previous day
		sessionAt("github.com", day.Add(12*time.Hour), 60_000),  // on the day
		sessionAt("example.com", day.Add(25*time.Hour), 60_000), // next day
		sessionAt("example.com", day.Add(24*time.Hour), 60_000), // next day boundary
	}

	totals := Daily(sessions, day)
	require.Len(t, totals, 1)
	assert.Equal(t, "github.com", totals[0].Domain)
}

func TestDaily_SkipsOpenAndEmptySessions(t *testing.T) {
	day := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	sessions := []session.Session{
		{Domain: "example.com", StartAt: day.Add(time.Hour).UnixMilli(), TabID: 1}, // open
		{Domain: "", StartAt: day.Add(time.Hour).UnixMilli(), EndAt: day.Add(2 * time.Hour).UnixMilli()},
	}

	assert.Empty(t, Daily(sessions, day))
}

func TestDaily_EmptyInput(t *testing.T) {
	assert.Empty(t, Daily(nil, time.Now()))
}

func TestDaily_KeepsFirstFavicon(t *testing.T) {
	day := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	s1 := sessionAt("example.com", day.Add(time.Hour), 1000)
	s1.Favicon = "https://example.com/favicon.ico"
	s2 := sessionAt("example.com", day.Add(2*time.Hour), 1000)

	totals := Daily([]session.Session{s1, s2}, day)
	require.Len(t, totals, 1)
	assert.Equal(t, "https://example.com/favicon.ico", totals[0].Favicon)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms       int64
		expected string
	}{
		{0, "0s"},
		{45_000, "45s"},
		{60_000, "1m 0s"},
		{125_000, "2m 5s"},
		{3_600_000, "1h 0m"},
		{7_500_000, "2h 5m"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, FormatDuration(tc.ms), "for %d ms", tc.ms)
	}
}
