package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "stringnet/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds settings for the STRING API client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIBase is the STRING API root (default "https://string-db.org/api").
	APIBase string `json:"api_base" yaml:"api_base"`

	// Species is the NCBI taxonomy identifier sent with every call
	// (default 9606, human).
	Species int `json:"species" yaml:"species"`

	// CallerIdentity is the static caller tag STRING asks API users to send.
	CallerIdentity string `json:"caller_identity" yaml:"caller_identity"`

	// RequestDelay is the pause after each API call (default 200ms).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// HistoryConfig holds settings for the local run-history catalog.
type HistoryConfig struct {
	// DBPath is the SQLite database file for the run history
	// (default ".stringnet/history.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxRuns is the default maximum number of runs the history
	// listing shows (default 20).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}
