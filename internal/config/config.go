package config

import (
	"strings"
	"time"

	"alcyxob/training-planner/internal/planner"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Planner  PlannerConfig  `mapstructure:"planner"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// PlannerConfig tunes the scheduling core and the reconciliation context.
type PlannerConfig struct {
	SupplementLookAheadWeeks  int           `mapstructure:"supplement_look_ahead_weeks"`
	FitnessHistoryDays        int           `mapstructure:"fitness_history_days"`
	CatalogCacheTTL           time.Duration `mapstructure:"catalog_cache_ttl"`
	RedistributionParallelism int           `mapstructure:"redistribution_parallelism"`
	// Weights override the shipped scoring constants; zero fields keep the default.
	Weights planner.ScoringWeights `mapstructure:"weights"`
}

// ScoringWeights returns the default weights with the configured overrides applied.
func (p PlannerConfig) ScoringWeights() planner.ScoringWeights {
	return planner.DefaultScoringWeights().Merge(p.Weights)
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, planner.catalog_cache_ttl -> PLANNER_CATALOG_CACHE_TTL
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "training_planner")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("planner.supplement_look_ahead_weeks", planner.DefaultLookAheadWeeks)
	v.SetDefault("planner.fitness_history_days", 90)
	v.SetDefault("planner.catalog_cache_ttl", "10m")
	v.SetDefault("planner.redistribution_parallelism", 4)
	// Registered so env overrides of individual weights are picked up by Unmarshal.
	for _, key := range weightKeys {
		v.SetDefault("planner.weights."+key, 0)
	}

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file; defaults and env vars only.
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}

var weightKeys = []string{
	"base",
	"preferred_bonus",
	"hard_double_penalty",
	"rest_swap_bonus",
	"occupied_penalty",
	"empty_bonus",
	"back_to_back_penalty",
	"heavy_recovery_penalty",
	"weekend_long_bonus",
	"offset_penalty_per_day",
	"duration_limit_penalty",
}
