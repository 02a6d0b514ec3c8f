// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Store selects the persistence backend: "memory" or "postgres".
	Store string `koanf:"store"`

	// Database connection settings, used when Store is "postgres".
	DBHost     string `koanf:"db_host"`
	DBPort     int    `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBSSLMode  string `koanf:"db_sslmode"`
	DBMinConns int    `koanf:"db_min_conns"`
	DBMaxConns int    `koanf:"db_max_conns"`

	// DecisionLatencyMinMS and DecisionLatencyMaxMS bound the simulated
	// bot deliberation latency.
	DecisionLatencyMinMS int `koanf:"decision_latency_min_ms"`
	DecisionLatencyMaxMS int `koanf:"decision_latency_max_ms"`

	// TurnCap bounds the number of draft turns per game, skips included.
	TurnCap int `koanf:"turn_cap"`

	// BidRoundCap bounds the counter-bid rounds within a single auction.
	BidRoundCap int `koanf:"bid_round_cap"`

	// PoolSize sets the number of players drawn into each game's pool.
	PoolSize int `koanf:"pool_size"`

	// StartingBalance sets each bot's opening credits.
	StartingBalance int `koanf:"starting_balance"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":8000",
		MaxLeaderboardLimit:  100,
		Store:                "memory",
		DBHost:               "localhost",
		DBPort:               5432,
		DBUser:               "postgres",
		DBPassword:           "",
		DBName:               "draftarena",
		DBSSLMode:            "prefer",
		DBMinConns:           2,
		DBMaxConns:           10,
		DecisionLatencyMinMS: 80,
		DecisionLatencyMaxMS: 150,
		TurnCap:              200,
		BidRoundCap:          20,
		PoolSize:             24,
		StartingBalance:      100,
	}
}
