package model

import "time"

// Config is the complete vibecheck configuration
type Config struct {
	Resolver  ResolverConfig  `yaml:"resolver" mapstructure:"resolver"`
	Scanner   ScannerConfig   `yaml:"scanner" mapstructure:"scanner"`
	Truthpack TruthpackConfig `yaml:"truthpack" mapstructure:"truthpack"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// ResolverConfig controls the evidence resolver
type ResolverConfig struct {
	Sources       []string      `yaml:"sources,omitempty" mapstructure:"sources"` // Empty = all sources enabled
	ProjectRoot   string        `yaml:"project_root" mapstructure:"project_root"`
	TruthpackPath string        `yaml:"truthpack_path" mapstructure:"truthpack_path"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`             // Per-resolver call
	EnableCaching bool          `yaml:"enable_caching" mapstructure:"enable_caching"`
	CacheTTL      time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`         // Positive evidence TTL
	CacheMaxSize  int           `yaml:"cache_max_size" mapstructure:"cache_max_size"`
	ParallelLimit int           `yaml:"parallel_limit" mapstructure:"parallel_limit"`
	MaxFileSize   int64         `yaml:"max_file_size" mapstructure:"max_file_size"` // Skip larger files in textual search
	MaxScanFiles  int           `yaml:"max_scan_files" mapstructure:"max_scan_files"`
}

// ScannerConfig controls the scan engine harness and file loader
type ScannerConfig struct {
	ProjectRoot     string        `yaml:"project_root" mapstructure:"project_root"`
	Incremental     bool          `yaml:"incremental" mapstructure:"incremental"`
	Parallel        bool          `yaml:"parallel" mapstructure:"parallel"`
	Workers         int           `yaml:"workers" mapstructure:"workers"` // Engine batch size
	EngineTimeout   time.Duration `yaml:"engine_timeout" mapstructure:"engine_timeout"`
	IncludePatterns []string      `yaml:"include_patterns" mapstructure:"include_patterns"`
	ExcludePatterns []string      `yaml:"exclude_patterns" mapstructure:"exclude_patterns"`
	ReadConcurrency int           `yaml:"read_concurrency" mapstructure:"read_concurrency"` // Reads in flight
	ReadRateLimit   float64       `yaml:"read_rate_limit" mapstructure:"read_rate_limit"`   // Files/sec, 0 = unlimited
}

// TruthpackConfig controls the truthpack store
type TruthpackConfig struct {
	StaleAfter time.Duration `yaml:"stale_after" mapstructure:"stale_after"` // Snapshot reload window
	Watch      bool          `yaml:"watch" mapstructure:"watch"`             // fsnotify invalidation
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	JSON    string `yaml:"json" mapstructure:"json"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Resolver: ResolverConfig{
			ProjectRoot:   ".",
			TruthpackPath: ".vibecheck/truthpack",
			Timeout:       5 * time.Second,
			EnableCaching: true,
			CacheTTL:      5 * time.Minute,
			CacheMaxSize:  2048,
			ParallelLimit: 10,
			MaxFileSize:   1 << 20,
			MaxScanFiles:  500,
		},
		Scanner: ScannerConfig{
			ProjectRoot:   ".",
			Incremental:   true,
			Parallel:      true,
			Workers:       4,
			EngineTimeout: 30 * time.Second,
			IncludePatterns: []string{
				"**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx",
				"**/*.json", "**/*.mjs", "**/*.cjs",
			},
			ExcludePatterns: []string{
				"node_modules/**", ".git/**", "dist/**", "build/**", ".vibecheck/**",
			},
			ReadConcurrency: 50,
			ReadRateLimit:   0,
		},
		Truthpack: TruthpackConfig{
			StaleAfter: 5 * time.Minute,
			Watch:      false,
		},
		Output: OutputConfig{
			Verbose: false,
			JSON:    "",
		},
	}
}
