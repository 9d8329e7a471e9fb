package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// TrackCommand — run the tracking daemon in the foreground.
type TrackCommand struct {
	Port     int    `long:"port" description:"Override daemon port"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show store health and usage statistics.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// ReportCommand — render per-domain time spent for a day.
type ReportCommand struct {
	Day   string `long:"day" description:"Day to report on (YYYY-MM-DD, default today)"`
	Limit int    `long:"limit" description:"Maximum domains to show" default:"20"`

	globals *GlobalFlags
	version string
}

// PurgeCommand — delete ALL persisted session records with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}
