package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultEnvFile is read when present and no other file is named.
const DefaultEnvFile = ".env"

// Options captures configuration for CLI bootstraps.
type Options struct {
	ConfigPath     string
	EnvFile        string
	ContentDir     string
	LogLevel       string
	Lookup         func(string) (string, bool)
	LoggerProvider interfaces.LoggerProvider
	ContentFS      fs.FS
}

// Module wraps the blog module and the CLI logger.
type Module struct {
	Module *blog.Module
	Config blog.Config
	Logger interfaces.Logger
}

// LoadConfig resolves the runtime configuration. Precedence, lowest first:
// defaults, config file, env file, process environment, flags.
func LoadConfig(opts Options) (blog.Config, error) {
	cfg, err := blog.LoadConfig(strings.TrimSpace(opts.ConfigPath))
	if err != nil {
		return blog.Config{}, err
	}

	fileEnv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return blog.Config{}, err
	}
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	merged := func(key string) (string, bool) {
		if value, ok := lookup(key); ok {
			return value, true
		}
		value, ok := fileEnv[key]
		return value, ok
	}
	if err := cfg.ApplyEnv(merged); err != nil {
		return blog.Config{}, err
	}

	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// readEnvFile returns the key/value pairs of path. A missing default file is
// not an error; an explicitly named one is.
func readEnvFile(path string) (map[string]string, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

// BuildModule constructs a blog module for CLI commands.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}
	if opts.ContentFS != nil {
		diOpts = append(diOpts, di.WithContentFS(opts.ContentFS))
	}

	module, err := blog.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise blog module: %w", err)
	}

	return &Module{
		Module: module,
		Config: cfg,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "blog.cli"),
	}, nil
}
