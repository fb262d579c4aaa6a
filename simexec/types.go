package simexec

import "io"

// Options configures engine behavior.
type Options struct {
	// MaxSteps bounds the number of work items the engine will process
	// before giving up. The schedule is strictly finite (program length x
	// live contexts), so the bound only trips on an engine defect.
	MaxSteps int

	// Logging configuration
	LogLevel      string    // Log level: "error", "warn", "info", "debug" (default: "warn")
	LogOutput     io.Writer // Destination for log lines; nil means os.Stderr
	LogTimeLayout string    // strftime layout for log timestamps (default: "%Y-%m-%dT%H:%M:%S.%f%z")

	// Logger overrides the default logger entirely when set.
	Logger Logger
}

// Result carries the final report of one engine run.
type Result struct {
	RunID  string  // Unique id for this execution, attached to every log line
	Report *Report // Totals, per-context inventories, emits, derivation tree
}

// DefaultOptions returns the default engine configuration.
func DefaultOptions() Options {
	return Options{
		MaxSteps:      1 << 20,
		LogLevel:      "warn",
		LogTimeLayout: "%Y-%m-%dT%H:%M:%S.%f%z",
	}
}
