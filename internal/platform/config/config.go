// Package config は環境変数・.envファイル・任意の設定ファイルからアプリケーション設定を読み込みます。
//
// 優先順位（高い順）:
//  1. 環境変数（DB_DRIVER, REDIS_HOST など）
//  2. CONFIG_FILE で指定された設定ファイル
//  3. デフォルト値
//
// .env ファイルは読み込み前に環境変数へ展開されます（既存の環境変数は上書きしません）。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"esg_dashboard/internal/feature/esg/adapters/huggingface"
	"esg_dashboard/internal/platform/db"
	"esg_dashboard/internal/platform/redis"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Supported values of DATASET_SOURCE and INGEST_SOURCE.
const (
	SourceDB          = "db"
	SourceCSV         = "csv"
	SourceHuggingFace = "hf"
)

// EnvConfigFile は任意の設定ファイルのパスを指定する環境変数名です。
const EnvConfigFile = "CONFIG_FILE"

// Config はサーバー・取り込みコマンド共通の設定です。
type Config struct {
	Port      string `mapstructure:"port"`
	GinMode   string `mapstructure:"gin_mode"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	DBDriver      string `mapstructure:"db_driver"`
	DBPath        string `mapstructure:"db_path"`
	DBUser        string `mapstructure:"db_user"`
	DBPassword    string `mapstructure:"db_password"`
	DBName        string `mapstructure:"db_name"`
	DBHost        string `mapstructure:"db_host"`
	DBPort        string `mapstructure:"db_port"`
	DBSSLMode     string `mapstructure:"db_sslmode"`
	RunMigrations bool   `mapstructure:"run_migrations"`

	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	CacheNamespace   string `mapstructure:"cache_namespace"`
	CacheRefreshHour int    `mapstructure:"cache_refresh_hour"`
	CacheTimezone    string `mapstructure:"cache_timezone"`

	JWTSecret string `mapstructure:"jwt_secret"`

	DatasetSource  string `mapstructure:"dataset_source"`
	DatasetCSVPath string `mapstructure:"dataset_csv_path"`
	IngestSource   string `mapstructure:"ingest_source"`

	HFBaseURL           string        `mapstructure:"hf_base_url"`
	HFDataset           string        `mapstructure:"hf_dataset"`
	HFConfig            string        `mapstructure:"hf_config"`
	HFSplit             string        `mapstructure:"hf_split"`
	HFPageSize          int           `mapstructure:"hf_page_size"`
	HFToken             string        `mapstructure:"hf_token"`
	HFTimeout           time.Duration `mapstructure:"hf_timeout"`
	HFRequestsPerMinute int           `mapstructure:"hf_requests_per_minute"`
}

// defaults は既定値です。キーはすべてここに登録し、AutomaticEnvでUnmarshalの対象にします。
var defaults = map[string]any{
	"port":                   "8080",
	"gin_mode":               "release",
	"log_level":              LogLevelInfo,
	"log_format":             LogFormatText,
	"db_driver":              db.DriverSQLite,
	"db_path":                "esg.db",
	"db_user":                "",
	"db_password":            "",
	"db_name":                "",
	"db_host":                "localhost",
	"db_port":                "5432",
	"db_sslmode":             "disable",
	"run_migrations":         true,
	"redis_host":             "",
	"redis_port":             "6379",
	"redis_password":         "",
	"redis_db":               0,
	"cache_namespace":        "esg",
	"cache_refresh_hour":     8,
	"cache_timezone":         "UTC",
	"jwt_secret":             "",
	"dataset_source":         SourceDB,
	"dataset_csv_path":       "",
	"ingest_source":          SourceHuggingFace,
	"hf_base_url":            huggingface.DefaultBaseURL,
	"hf_dataset":             huggingface.DefaultDataset,
	"hf_config":              huggingface.DefaultConfigName,
	"hf_split":               huggingface.DefaultSplit,
	"hf_page_size":           huggingface.DefaultPageSize,
	"hf_token":               "",
	"hf_timeout":             "10s",
	"hf_requests_per_minute": 60,
}

// Load は envFile（空の場合は ".env"）を読み込んだ後、環境変数と設定ファイルから設定を構築します。
// .env ファイルが存在しない場合はエラーにしません。
// 呼び出しごとに新しいviperインスタンスを使うため、テストから並行に呼んでも安全です。
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(strings.ToLower(EnvConfigFile)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値の妥当性を検証します。
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	switch c.DBDriver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: %w", c.DBDriver, db.ErrUnsupportedDriver)
	}

	switch c.DatasetSource {
	case SourceDB:
	case SourceCSV:
		if c.DatasetCSVPath == "" {
			return errors.New("DATASET_CSV_PATH is required when DATASET_SOURCE=csv")
		}
	default:
		return fmt.Errorf("invalid DATASET_SOURCE %q: must be one of db, csv", c.DatasetSource)
	}

	switch c.IngestSource {
	case SourceHuggingFace:
	case SourceCSV:
		if c.DatasetCSVPath == "" {
			return errors.New("DATASET_CSV_PATH is required when INGEST_SOURCE=csv")
		}
	default:
		return fmt.Errorf("invalid INGEST_SOURCE %q: must be one of hf, csv", c.IngestSource)
	}

	if c.CacheRefreshHour < 0 || c.CacheRefreshHour > 23 {
		return fmt.Errorf("invalid CACHE_REFRESH_HOUR %d: must be between 0 and 23", c.CacheRefreshHour)
	}
	if _, err := time.LoadLocation(c.CacheTimezone); err != nil {
		return fmt.Errorf("invalid CACHE_TIMEZONE %q: %w", c.CacheTimezone, err)
	}
	if c.HFRequestsPerMinute < 0 {
		return fmt.Errorf("invalid HF_REQUESTS_PER_MINUTE %d: must not be negative", c.HFRequestsPerMinute)
	}
	return nil
}

// Database はDB接続設定を返します。
func (c *Config) Database() db.Config {
	return db.Config{
		Driver:        c.DBDriver,
		Path:          c.DBPath,
		User:          c.DBUser,
		Password:      c.DBPassword,
		Name:          c.DBName,
		Host:          c.DBHost,
		Port:          c.DBPort,
		SSLMode:       c.DBSSLMode,
		RunMigrations: c.RunMigrations,
	}
}

// Redis はRedis接続設定を返します。REDIS_HOSTが空の場合はキャッシュなしで動作します。
func (c *Config) Redis() redis.Config {
	return redis.Config{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// HuggingFace はdatasets-serverクライアントの設定を返します。
func (c *Config) HuggingFace() huggingface.Config {
	return huggingface.Config{
		BaseURL:    c.HFBaseURL,
		Dataset:    c.HFDataset,
		ConfigName: c.HFConfig,
		Split:      c.HFSplit,
		PageSize:   c.HFPageSize,
		Token:      c.HFToken,
		Timeout:    c.HFTimeout,
	}
}

// CacheLocation はキャッシュ更新時刻のタイムゾーンを返します。Validate済みの設定では失敗しません。
func (c *Config) CacheLocation() *time.Location {
	loc, err := time.LoadLocation(c.CacheTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
