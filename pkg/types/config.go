package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "challenge-radar/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a text-completion API.
type AIConfig struct {
	// Provider selects the completion backend: "anthropic" or "gemini".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929",
	// "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ParserConfig holds settings for the request parser.
type ParserConfig struct {
	// MinQuickConfidence is the quick-path confidence below which the
	// refinement pass runs (default 0.8).
	MinQuickConfidence float64 `json:"min_quick_confidence" yaml:"min_quick_confidence"`

	// Version is stamped into every ParsedUserRequest (default "1.0").
	Version string `json:"version" yaml:"version"`
}

// CollectorConfig holds settings for the video collection stage.
type CollectorConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the YouTube Data API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RegionCode is the default search region (default "US").
	RegionCode string `json:"region_code" yaml:"region_code"`

	// MaxPerQuery caps results per search term (default 20).
	MaxPerQuery int `json:"max_per_query" yaml:"max_per_query"`

	// MaxDailyQuota bounds estimated API quota units spent per process
	// lifetime (default 10000, the YouTube free tier).
	MaxDailyQuota int `json:"max_daily_quota" yaml:"max_daily_quota"`

	// WidenPastRanges widens "last week"/"last month" windows to include
	// the current period as well (14 and 60 days instead of 7 and 30).
	// Matches the historical behavior of the service; disable for strict
	// prior-period windows.
	WidenPastRanges bool `json:"widen_past_ranges" yaml:"widen_past_ranges"`

	// BreakerFailures is the consecutive-failure count that opens the
	// collection circuit breaker (default 5).
	BreakerFailures uint32 `json:"breaker_failures" yaml:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open before probing
	// again (default 60s).
	BreakerTimeout time.Duration `json:"breaker_timeout" yaml:"breaker_timeout"`
}

// StoreConfig holds settings for the query-history store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database (default ".").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxHistory is the default maximum number of history rows returned
	// (default 20).
	MaxHistory int `json:"max_history" yaml:"max_history"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Parser    ParserConfig    `json:"parser" yaml:"parser"`
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Collector CollectorConfig `json:"collector" yaml:"collector"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
