package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/imdario/mergo"
	"github.com/joho/godotenv"
)

const (
	SourceXLSX = "xlsx"
	SourceDB   = "db"
)

type Config struct {
	Port      string
	Source    string
	DataDir   string
	StaticDir string
	DB        string
	LogFile   string
	Snapshot  string
	RateLimit float64
	Watch     bool
}

// Defaults are used for every variable left unset.
func Defaults() Config {
	return Config{
		Port:      "8080",
		Source:    SourceXLSX,
		DataDir:   "./data",
		StaticDir: "./static",
		LogFile:   "./logs/server.log",
		Snapshot:  "./cache/records.json.zst",
		RateLimit: 20,
	}
}

// Load reads .env files (if present), then the environment, and fills the
// gaps from Defaults.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("Error loading .env file")
	}
	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return cfg, err
	}
	defaults := Defaults()
	// An explicit RATE_LIMIT, including 0 (off), is not a gap to fill.
	if os.Getenv("RATE_LIMIT") != "" {
		defaults.RateLimit = cfg.RateLimit
	}
	if err := mergo.Merge(&cfg, defaults); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// FromEnv reads known variables through getenv without applying defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:      getenv("PORT"),
		Source:    getenv("ENERGY_SOURCE"),
		DataDir:   getenv("DATA_DIR"),
		StaticDir: getenv("STATIC_DIR"),
		DB:        getenv("DB"),
		LogFile:   getenv("LOGFILE"),
		Snapshot:  getenv("SNAPSHOT"),
	}
	if v := getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = f
	}
	if v := getenv("WATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("WATCH: %w", err)
		}
		cfg.Watch = b
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Source {
	case SourceXLSX:
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required for xlsx source")
		}
	case SourceDB:
		if c.DB == "" {
			return errors.New("DB is required for db source")
		}
	default:
		return fmt.Errorf("unknown ENERGY_SOURCE %q", c.Source)
	}
	if c.RateLimit < 0 {
		return errors.New("RATE_LIMIT must not be negative")
	}
	return nil
}
