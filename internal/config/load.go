package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Flag names registered by Load.
const (
	FlagBackend   = "backend"
	FlagDataFile  = "data-file"
	FlagRedisAddr = "redis-addr"
	FlagLogLevel  = "log-level"
	FlagColor     = "color"
	FlagConfig    = "config"
)

// sources lets tests swap the process environment and directories.
type sources struct {
	workDir string
	userDir string
	getenv  func(string) string
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file ($XDG_CONFIG_HOME/tada/config.toml) or --config/TADA_CONFIG
// 3. Project config file (tada.toml or .tada.toml in the working directory)
// 4. .env in the working directory
// 5. Environment variables
// 6. Flags on fs (parsed from args)
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}
	userDir, _ := os.UserConfigDir()
	return load(fs, args, sources{workDir: wd, userDir: userDir, getenv: os.Getenv})
}

func load(fs *pflag.FlagSet, args []string, src sources) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	fl := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	dotenv, err := readDotenv(filepath.Join(src.workDir, ".env"))
	if err != nil {
		return nil, err
	}
	getenv := func(key string) string {
		if v := src.getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	userFile := *fl.config
	if userFile == "" {
		userFile = getenv("TADA_CONFIG")
	}
	if userFile != "" {
		if err := loadConfigFile(cfg, expandHome(userFile)); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", userFile, err)
		}
	} else if p := findUserConfigFile(src.userDir); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}

	if p := findProjectConfigFile(src.workDir); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	if err := loadFromEnv(cfg, getenv); err != nil {
		return nil, err
	}

	fl.apply(fs, cfg)

	if err := finalizeConfig(cfg, src.workDir); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

type flagValues struct {
	backend, dataFile, redisAddr, logLevel, color, config *string
}

func registerFlags(fs *pflag.FlagSet) flagValues {
	return flagValues{
		backend:   fs.String(FlagBackend, DefaultBackend, "storage backend: file, redis or memory"),
		dataFile:  fs.String(FlagDataFile, DefaultDataFile, "JSON file used by the file backend"),
		redisAddr: fs.String(FlagRedisAddr, DefaultRedisAddr, "Redis host:port for the redis backend"),
		logLevel:  fs.String(FlagLogLevel, DefaultLogLevel, "debug, info, warn or error"),
		color:     fs.String(FlagColor, DefaultColor, "auto, always or never"),
		config:    fs.String(FlagConfig, "", "config file to read instead of the user one"),
	}
}

// apply copies only flags the user actually set.
func (f flagValues) apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed(FlagBackend) {
		cfg.Backend = *f.backend
	}
	if fs.Changed(FlagDataFile) {
		cfg.DataFile = *f.dataFile
	}
	if fs.Changed(FlagRedisAddr) {
		cfg.Redis.Addr = *f.redisAddr
	}
	if fs.Changed(FlagLogLevel) {
		cfg.LogLevel = *f.logLevel
	}
	if fs.Changed(FlagColor) {
		cfg.Color = *f.color
	}
}

func loadFromEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("TADA_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := getenv("TADA_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := getenv("TADA_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := getenv("TADA_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := getenv("TADA_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TADA_REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	if v := getenv("TADA_REDIS_PREFIX"); v != "" {
		cfg.Redis.Prefix = v
	}
	if v := getenv("TADA_REDIS_TIMEOUT"); v != "" {
		cfg.Redis.Timeout = v
	}
	if v := getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("TADA_COLOR"); v != "" {
		cfg.Color = v
	} else if getenv("NO_COLOR") != "" {
		cfg.Color = "never"
	}
	return nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func findUserConfigFile(userDir string) string {
	if userDir == "" {
		return ""
	}
	p := filepath.Join(userDir, "tada", "config.toml")
	if fileExists(p) {
		return p
	}
	return ""
}

func findProjectConfigFile(workDir string) string {
	for _, name := range []string{"tada.toml", ".tada.toml"} {
		p := filepath.Join(workDir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func readDotenv(path string) (map[string]string, error) {
	if !fileExists(path) {
		return map[string]string{}, nil
	}
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return m, nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// parseDuration accepts "10s", "5m" or a bare number of seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 2s, 500ms or a number of seconds: %w", err)
	}
	return d, nil
}
