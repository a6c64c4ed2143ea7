package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	DialTimeout int
	Timeout     int
	Prefix      string
}

type S3Config struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	Prefix          string
	URLTTLMinutes   int
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Port       string
	DBDriver   string
	SQLitePath string
	Postgres   PostgresConfig
	Redis      RedisConfig
	S3         S3Config
	Log        LogConfig

	ExportDir         string
	FilesPublicPrefix string
	ExternalURL       string
	ExportRetention   time.Duration
	StaticDir         string
}

var defaults = map[string]any{
	"APP_PORT":    "8080",
	"DB_DRIVER":   DriverSQLite,
	"SQLITE_PATH": "./debt_management.db",

	"PG_HOST":     "127.0.0.1",
	"PG_PORT":     5432,
	"PG_USER":     "root",
	"PG_PASSWORD": "",
	"PG_DB":       "debt_ledger",
	"PG_SSLMODE":  "disable",

	"REDIS_ENABLED":      false,
	"REDIS_ADDR":         "127.0.0.1:6379",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"REDIS_MAX_RETRIES":  5,
	"REDIS_DIAL_TIMEOUT": 10,
	"REDIS_TIMEOUT":      5,
	"REDIS_PREFIX":       "debt_ledger_",

	"S3_ENABLED":    false,
	"S3_ENDPOINT":   "localhost:9000",
	"S3_ACCESS_KEY": "minio",
	"S3_SECRET_KEY": "minio123",
	"S3_BUCKET":     "exports",
	"S3_REGION":     "us-east-1",
	"S3_USE_SSL":    false,
	"S3_PREFIX":     "",
	"S3_URL_TTL":    30,

	"EXPORT_DIR":               "./exports",
	"FILES_PUBLIC_PREFIX":      "/files",
	"EXTERNAL_URL":             "",
	"EXPORT_RETENTION_MINUTES": 30,
	"STATIC_DIR":               "./client/build",

	"LOG_LEVEL":  "info",
	"LOG_FORMAT": "text",
}

// New returns a viper instance reading the process environment with the
// application defaults applied.
func New() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// LoadDotEnv reads .env files into the environment. A missing file is not an error.
func LoadDotEnv(files ...string) (bool, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// parser collects the first conversion error so Load can read every key in
// one pass.
type parser struct {
	v   *viper.Viper
	err error
}

func (p *parser) str(key string) string {
	return strings.TrimSpace(p.v.GetString(key))
}

func (p *parser) int(key string) int {
	i, err := cast.ToIntE(p.v.Get(key))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid int value for %s: %q", key, p.v.GetString(key))
	}
	return i
}

func (p *parser) bool(key string) bool {
	b, err := cast.ToBoolE(p.v.Get(key))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid bool value for %s: %q", key, p.v.GetString(key))
	}
	return b
}

func Load(v *viper.Viper) (AppConfig, error) {
	p := &parser{v: v}

	cfg := AppConfig{
		Port:       p.str("APP_PORT"),
		DBDriver:   strings.ToLower(p.str("DB_DRIVER")),
		SQLitePath: p.str("SQLITE_PATH"),
		Postgres: PostgresConfig{
			Host:     p.str("PG_HOST"),
			Port:     p.int("PG_PORT"),
			User:     p.str("PG_USER"),
			Password: p.str("PG_PASSWORD"),
			DBName:   p.str("PG_DB"),
			SSLMode:  p.str("PG_SSLMODE"),
		},
		Redis: RedisConfig{
			Enabled:     p.bool("REDIS_ENABLED"),
			Addr:        p.str("REDIS_ADDR"),
			Password:    p.str("REDIS_PASSWORD"),
			DB:          p.int("REDIS_DB"),
			MaxRetries:  p.int("REDIS_MAX_RETRIES"),
			DialTimeout: p.int("REDIS_DIAL_TIMEOUT"),
			Timeout:     p.int("REDIS_TIMEOUT"),
			Prefix:      p.str("REDIS_PREFIX"),
		},
		S3: S3Config{
			Enabled:         p.bool("S3_ENABLED"),
			Endpoint:        p.str("S3_ENDPOINT"),
			AccessKeyID:     p.str("S3_ACCESS_KEY"),
			SecretAccessKey: p.str("S3_SECRET_KEY"),
			Bucket:          p.str("S3_BUCKET"),
			Region:          p.str("S3_REGION"),
			UseSSL:          p.bool("S3_USE_SSL"),
			Prefix:          p.str("S3_PREFIX"),
			URLTTLMinutes:   p.int("S3_URL_TTL"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(p.str("LOG_LEVEL")),
			Format: strings.ToLower(p.str("LOG_FORMAT")),
		},
		ExportDir:         p.str("EXPORT_DIR"),
		FilesPublicPrefix: p.str("FILES_PUBLIC_PREFIX"),
		ExternalURL:       p.str("EXTERNAL_URL"),
		ExportRetention:   time.Duration(p.int("EXPORT_RETENTION_MINUTES")) * time.Minute,
		StaticDir:         p.str("STATIC_DIR"),
	}
	if p.err != nil {
		return AppConfig{}, p.err
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return AppConfig{}, fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", cfg.DBDriver, DriverSQLite, DriverPostgres)
	}
	if cfg.ExportRetention <= 0 {
		return AppConfig{}, fmt.Errorf("EXPORT_RETENTION_MINUTES must be positive")
	}

	return cfg, nil
}
