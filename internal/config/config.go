package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	DatabaseFallback   bool
	RedisURL           string
	NATSURL            string
	NATSSubject        string
	JWTSecret          string
	RankingCacheTTL    time.Duration
	RankingLimit       int
	FinalResultsLimit  int
	AutoScoreWeight    float64
	ManualScoreWeight  float64
	ScoreRateLimitMax  int
	ScoreRateLimitSpan time.Duration
	SeedEnabled        bool
	SeedToken          string
	CORSOrigins        string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HIRE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	v.SetDefault("app.name", "Hire API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.fallback", false)
	v.SetDefault("nats.subject", "hire.recruitment")
	v.SetDefault("ranking.cache_ttl", "2m")
	v.SetDefault("ranking.limit", 10)
	v.SetDefault("final.limit", 3)
	v.SetDefault("scoring.auto_weight", 0.4)
	v.SetDefault("scoring.manual_weight", 0.6)
	v.SetDefault("ratelimit.score_max", 30)
	v.SetDefault("ratelimit.score_window", "1m")
	v.SetDefault("seed.enabled", false)
	v.SetDefault("cors.origins", "*")

	ttl, err := parseDuration(v.GetString("ranking.cache_ttl"), 2*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid ranking cache ttl: %w", err)
	}

	window, err := parseDuration(v.GetString("ratelimit.score_window"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid score rate limit window: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		DatabaseFallback:   v.GetBool("database.fallback"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		NATSSubject:        v.GetString("nats.subject"),
		JWTSecret:          v.GetString("jwt.secret"),
		RankingCacheTTL:    ttl,
		RankingLimit:       v.GetInt("ranking.limit"),
		FinalResultsLimit:  v.GetInt("final.limit"),
		AutoScoreWeight:    v.GetFloat64("scoring.auto_weight"),
		ManualScoreWeight:  v.GetFloat64("scoring.manual_weight"),
		ScoreRateLimitMax:  v.GetInt("ratelimit.score_max"),
		ScoreRateLimitSpan: window,
		SeedEnabled:        v.GetBool("seed.enabled"),
		SeedToken:          v.GetString("seed.token"),
		CORSOrigins:        strings.TrimSpace(v.GetString("cors.origins")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AutoScoreWeight < 0 || cfg.ManualScoreWeight < 0 || cfg.AutoScoreWeight+cfg.ManualScoreWeight <= 0 {
		return Config{}, fmt.Errorf("score weights must be non-negative and not both zero")
	}

	if cfg.RankingLimit <= 0 {
		cfg.RankingLimit = 10
	}

	if cfg.FinalResultsLimit <= 0 {
		cfg.FinalResultsLimit = 3
	}

	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
