package ir

// Version constants for the IR schema and the analyzer.
const (
	// IRVersion is the schedule IR schema version.
	IRVersion = "1"

	// AnalyzerVersion is the ecsaccess analyzer version recorded with each run.
	AnalyzerVersion = "0.1.0"
)
