// Package config assembles the service configuration from defaults,
// an optional JSON file, the environment (including a .env file) and
// command line flags, in that order of increasing priority.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/thoas/go-funk"
)

// Config holds every setting of the profile deletion service.
type Config struct {
	RunAddr             string        `json:"server_address" env:"SERVER_ADDRESS" validate:"hostname_port"`
	LogLevel            string        `json:"log_level" env:"LOG_LEVEL" validate:"loglevel"`
	DBFileName          string        `json:"file_storage_path" env:"FILE_STORAGE_PATH" validate:"filepath"`
	DatabaseDSN         string        `json:"database_dsn" env:"DATABASE_DSN"`
	DBConnectionTimeout time.Duration `json:"-" env:"DB_CONNECTION_TIMEOUT"`
	MigrationsDir       string        `json:"migrations_dir" env:"MIGRATIONS_DIR"`
	SQLitePath          string        `json:"sqlite_path" env:"SQLITE_PATH" validate:"filepath"`
	BackendDeleteURL    string        `json:"backend_delete_url" env:"BACKEND_DELETE_URL" validate:"omitempty,url"`
	BackendTimeout      time.Duration `json:"-" env:"BACKEND_TIMEOUT"`
	CORSAllowedOrigins  []string      `json:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	ConfigFile          string        `json:"-" env:"CONFIG"`
}

var defaultConfig = Config{
	RunAddr:             ":8080",
	LogLevel:            "info",
	DBConnectionTimeout: 10 * time.Second,
	MigrationsDir:       "cmd/profiledeleter/migrations",
	BackendTimeout:      5 * time.Second,
}

var allowedLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

type flagValues struct {
	Config
	set map[string]bool
}

// InitOption customizes New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
	args                []string
}

// WithDisableFlagsParsing skips command line parsing, which tests need
// because the test binary has its own flags.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// WithArgs parses the given arguments instead of os.Args[1:].
func WithArgs(args []string) InitOption {
	return func(options *initOptions) {
		options.args = args
	}
}

// New builds the configuration. Priority: flags > env > JSON file > defaults.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
		args:                os.Args[1:],
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("in internal/config/config.go/New(): error while `godotenv.Load()` calling: %w", err)
	}

	flags := &flagValues{set: map[string]bool{}}
	if !options.disableFlagsParsing {
		if err := parseFlags(flags, options.args); err != nil {
			return nil, err
		}
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, fmt.Errorf("in internal/config/config.go/New(): error while `env.Parse()` calling: %w", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	configFile := valuesFromEnv.ConfigFile
	if flags.set["c"] {
		configFile = flags.ConfigFile
	}
	if configFile != "" {
		if err := values.loadJSON(configFile); err != nil {
			return nil, err
		}
		values.ConfigFile = configFile
	}

	applyDefaults(values, valuesFromEnv)
	values.applyFlags(flags)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}

// applyDefaults copies every non-zero field of source into target.
func applyDefaults(target *Config, source Config) {
	if source.RunAddr != "" {
		target.RunAddr = source.RunAddr
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.DBFileName != "" {
		target.DBFileName = source.DBFileName
	}
	if source.DatabaseDSN != "" {
		target.DatabaseDSN = source.DatabaseDSN
	}
	if source.DBConnectionTimeout != 0 {
		target.DBConnectionTimeout = source.DBConnectionTimeout
	}
	if source.MigrationsDir != "" {
		target.MigrationsDir = source.MigrationsDir
	}
	if source.SQLitePath != "" {
		target.SQLitePath = source.SQLitePath
	}
	if source.BackendDeleteURL != "" {
		target.BackendDeleteURL = source.BackendDeleteURL
	}
	if source.BackendTimeout != 0 {
		target.BackendTimeout = source.BackendTimeout
	}
	if len(source.CORSAllowedOrigins) > 0 {
		target.CORSAllowedOrigins = source.CORSAllowedOrigins
	}
}

func (c *Config) loadJSON(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("in internal/config/config.go/loadJSON(): error while `os.ReadFile()` calling: %w", err)
	}

	var valuesFromJSON Config
	if err := json.Unmarshal(data, &valuesFromJSON); err != nil {
		return fmt.Errorf("in internal/config/config.go/loadJSON(): error while `json.Unmarshal()` calling: %w", err)
	}
	applyDefaults(c, valuesFromJSON)

	return nil
}

func parseFlags(flags *flagValues, args []string) error {
	flagSet := flag.NewFlagSet("profiledeleter", flag.ContinueOnError)
	flagSet.StringVar(&flags.RunAddr, "a", "", "address and port to run server")
	flagSet.StringVar(&flags.LogLevel, "l", "", "logger level")
	flagSet.StringVar(&flags.DBFileName, "f", "", "JSON file name with user profiles")
	flagSet.StringVar(&flags.DatabaseDSN, "d", "", "a string with the database connection details")
	flagSet.StringVar(&flags.SQLitePath, "s", "", "SQLite database file with user profiles")
	flagSet.StringVar(&flags.BackendDeleteURL, "u", "", "backend URL to forward profile deletions to")
	flagSet.StringVar(&flags.ConfigFile, "c", "", "JSON config file")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	flagSet.Visit(func(f *flag.Flag) {
		flags.set[f.Name] = true
	})

	return nil
}

func (c *Config) applyFlags(flags *flagValues) {
	if flags.set["a"] {
		c.RunAddr = flags.RunAddr
	}
	if flags.set["l"] {
		c.LogLevel = flags.LogLevel
	}
	if flags.set["f"] {
		c.DBFileName = flags.DBFileName
	}
	if flags.set["d"] {
		c.DatabaseDSN = flags.DatabaseDSN
	}
	if flags.set["s"] {
		c.SQLitePath = flags.SQLitePath
	}
	if flags.set["u"] {
		c.BackendDeleteURL = flags.BackendDeleteURL
	}
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	return funk.ContainsString(allowedLogLevels, fieldLevel.Field().String())
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}
