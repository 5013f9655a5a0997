// Package config loads server settings from command-line flags, falling back
// to environment variables and then to built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

const (
	DefaultAddr         = ":3000"
	DefaultAllowOrigins = "http://localhost:5173"
	DefaultLogLevel     = "info"
)

var ErrInvalidLogLevel = errors.New("invalid log level")

var levels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

type Config struct {
	Addr         string
	AllowOrigins string
	// DataDir holds the result store; empty keeps results in memory.
	DataDir  string
	LogLevel string
}

// Load parses args (without the program name) on top of the environment.
func Load(args []string) (Config, error) {
	return load(args, os.Getenv)
}

func load(args []string, getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	var cfg Config
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "addr", env("CHESS_ADDR", DefaultAddr), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", env("CHESS_ALLOW_ORIGINS", DefaultAllowOrigins), "comma separated CORS origins")
	fs.StringVar(&cfg.DataDir, "data-dir", env("CHESS_DATA_DIR", ""), "result store directory (empty for in-memory)")
	fs.StringVar(&cfg.LogLevel, "log-level", env("LOG_LEVEL", DefaultLogLevel), "trace, debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level maps LogLevel onto Fiber's logger levels.
func (c Config) Level() (log.Level, error) {
	lvl, ok := levels[strings.ToLower(c.LogLevel)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return lvl, nil
}

// Origins splits AllowOrigins for the WebSocket origin check.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
