// CLAUDE:SUMMARY Root configuration: server, dataset, scoring, api, journal, locality, log sections with env overrides.
package config

import (
	"time"

	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	API      APIConfig      `yaml:"api"`
	Journal  JournalConfig  `yaml:"journal"`
	Locality LocalityConfig `yaml:"locality"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds listener settings. Without cert/key files the server
// speaks plain HTTP; HTTP/3 needs TLS and falls back to a self-signed cert.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"SERVER_ADDR"             env-default:":8420"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	CertFile        string        `yaml:"cert_file"        env:"SERVER_CERT_FILE"`
	KeyFile         string        `yaml:"key_file"         env:"SERVER_KEY_FILE"`
	HTTP3           bool          `yaml:"http3"            env:"SERVER_HTTP3"            env-default:"false"`
}

// DatasetConfig points at the manifest directory.
type DatasetConfig struct {
	Dir string `yaml:"dir" env:"DATASET_DIR" env-default:"data/axixa"`
}

// ScoringConfig mirrors gazetteer.Scoring.
type ScoringConfig struct {
	CategoryBonus       float64 `yaml:"category_bonus"        env:"SCORING_CATEGORY_BONUS"        env-default:"12"`
	NameStrongThreshold float64 `yaml:"name_strong_threshold" env:"SCORING_NAME_STRONG_THRESHOLD" env-default:"85"`
	NameStrongBonus     float64 `yaml:"name_strong_bonus"     env:"SCORING_NAME_STRONG_BONUS"     env-default:"25"`
	NameWeakThreshold   float64 `yaml:"name_weak_threshold"   env:"SCORING_NAME_WEAK_THRESHOLD"   env-default:"60"`
	NameWeakBonus       float64 `yaml:"name_weak_bonus"       env:"SCORING_NAME_WEAK_BONUS"       env-default:"10"`
	MatchThreshold      float64 `yaml:"match_threshold"       env:"SCORING_MATCH_THRESHOLD"       env-default:"70"`
	ListingSize         int     `yaml:"listing_size"          env:"SCORING_LISTING_SIZE"          env-default:"4"`
}

// ToScoring converts the section into the resolver's parameter set.
func (s ScoringConfig) ToScoring() gazetteer.Scoring {
	return gazetteer.Scoring{
		CategoryBonus:       s.CategoryBonus,
		NameStrongThreshold: s.NameStrongThreshold,
		NameStrongBonus:     s.NameStrongBonus,
		NameWeakThreshold:   s.NameWeakThreshold,
		NameWeakBonus:       s.NameWeakBonus,
		MatchThreshold:      s.MatchThreshold,
		ListingSize:         s.ListingSize,
	}
}

// APIConfig holds request limits for the HTTP and MCP surfaces.
type APIConfig struct {
	RatePerMinute  int           `yaml:"rate_per_minute"  env:"API_RATE_PER_MINUTE"  env-default:"10"`
	RateBurst      int           `yaml:"rate_burst"       env:"API_RATE_BURST"       env-default:"10"`
	MaxQueryLength int           `yaml:"max_query_length" env:"API_MAX_QUERY_LENGTH" env-default:"500"`
	BatchMax       int           `yaml:"batch_max"        env:"API_BATCH_MAX"        env-default:"100"`
	BatchWorkers   int           `yaml:"batch_workers"    env:"API_BATCH_WORKERS"    env-default:"8"`
	CacheTTL       time.Duration `yaml:"cache_ttl"        env:"API_CACHE_TTL"        env-default:"5m"`
	AllowedOrigins string        `yaml:"allowed_origins"  env:"API_ALLOWED_ORIGINS"  env-default:"*"`
}

// JournalConfig holds the interaction journal settings. An empty path
// disables the journal.
type JournalConfig struct {
	Path   string `yaml:"path"   env:"JOURNAL_PATH"`
	Buffer int    `yaml:"buffer" env:"JOURNAL_BUFFER" env-default:"256"`
}

// LocalityConfig is appended to map-link queries.
type LocalityConfig struct {
	Name string `yaml:"name" env:"LOCALITY_NAME" env-default:"Axixá, Maranhão"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
