// Package config loads repograph settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (repograph.toml in the working directory, or --config)
//  3. REPOGRAPH_* environment variables, including those from a .env file
//  4. command-line flags, applied by the CLI
//
// A minimal file:
//
//	[repository]
//	root = "https://repo1.maven.org/maven2/io/ktor/"
//	rate_limit = 10
//
//	[checkpoint]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/repograph/pkg/errors"
)

// DefaultPath is the config file read when none is given explicitly.
const DefaultPath = "repograph.toml"

// Checkpoint backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Duration is a time.Duration that decodes from strings such as "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the complete run configuration.
type Config struct {
	Repository Repository `toml:"repository"`
	Resolve    Resolve    `toml:"resolve"`
	Checkpoint Checkpoint `toml:"checkpoint"`
	Analysis   Analysis   `toml:"analysis"`
	Output     Output     `toml:"output"`
	Cache      Cache      `toml:"cache"`
}

// Repository describes the remote repository and how to talk to it.
type Repository struct {
	Root           string   `toml:"root"`
	DescriptorName string   `toml:"descriptor_name"`
	FollowExternal bool     `toml:"follow_external"`
	UserAgent      string   `toml:"user_agent"`
	RateLimit      float64  `toml:"rate_limit"` // requests per second, 0 = unlimited
	Timeout        Duration `toml:"timeout"`
	Retries        int      `toml:"retries"`
}

// Resolve configures the fetch worker pool.
type Resolve struct {
	Workers     int      `toml:"workers"`
	UnitTimeout Duration `toml:"unit_timeout"`
	Resume      bool     `toml:"resume"`
}

// Checkpoint selects where crawl progress is persisted.
type Checkpoint struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	RedisURL string `toml:"redis_url"`
	// RedisKey defaults to a key derived from the repository root.
	RedisKey string `toml:"redis_key"`
}

// Analysis bounds the cycle search.
type Analysis struct {
	MaxCycleLength int `toml:"max_cycle_length"`
	MaxCycles      int `toml:"max_cycles"`
}

// Output names the files a run writes.
type Output struct {
	Dir     string `toml:"dir"`
	Records string `toml:"records"`
	Format  string `toml:"format"`
}

// Cache configures the persistent HTTP cache.
type Cache struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Repository: Repository{
			DescriptorName: "maven-metadata.xml",
			UserAgent:      "repograph",
			Timeout:        Duration(30 * time.Second),
			Retries:        3,
		},
		Resolve: Resolve{
			Workers:     8,
			UnitTimeout: Duration(2 * time.Minute),
			Resume:      true,
		},
		Checkpoint: Checkpoint{
			Backend: BackendFile,
			Path:    "xmls.csv",
		},
		Analysis: Analysis{MaxCycles: 10000},
		Output: Output{
			Dir:     "build",
			Records: "release_details.csv",
			Format:  "dot",
		},
	}
}

// Load builds a configuration from defaults, the file at path and the
// environment. An empty path reads [DefaultPath] if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := cfg.decodeFile(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			err = nil
		}
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from REPOGRAPH_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	var err error
	num := func(name string, dst *int) {
		if v, ok := lookup(name); ok && v != "" && err == nil {
			n, e := strconv.Atoi(v)
			if e != nil {
				err = errors.Wrap(errors.ErrCodeInvalidConfig, e, "%s", name)
				return
			}
			*dst = n
		}
	}
	dur := func(name string, dst *Duration) {
		if v, ok := lookup(name); ok && v != "" && err == nil {
			if e := dst.UnmarshalText([]byte(v)); e != nil {
				err = errors.Wrap(errors.ErrCodeInvalidConfig, e, "%s", name)
			}
		}
	}

	str("REPOGRAPH_ROOT", &c.Repository.Root)
	str("REPOGRAPH_USER_AGENT", &c.Repository.UserAgent)
	dur("REPOGRAPH_TIMEOUT", &c.Repository.Timeout)
	num("REPOGRAPH_WORKERS", &c.Resolve.Workers)
	str("REPOGRAPH_CHECKPOINT_BACKEND", &c.Checkpoint.Backend)
	str("REPOGRAPH_CHECKPOINT_PATH", &c.Checkpoint.Path)
	str("REPOGRAPH_REDIS_URL", &c.Checkpoint.RedisURL)
	num("REPOGRAPH_MAX_CYCLES", &c.Analysis.MaxCycles)
	str("REPOGRAPH_OUTPUT_DIR", &c.Output.Dir)
	str("REPOGRAPH_CACHE_DIR", &c.Cache.Dir)

	if v, ok := lookup("REPOGRAPH_RATE_LIMIT"); ok && v != "" && err == nil {
		f, e := strconv.ParseFloat(v, 64)
		if e != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, e, "REPOGRAPH_RATE_LIMIT")
		}
		c.Repository.RateLimit = f
	}
	return err
}

// Validate reports the first invalid setting. needRoot is false for
// commands that never contact the repository.
func (c *Config) Validate(needRoot bool) error {
	if needRoot {
		if c.Repository.Root == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "repository root is required")
		}
		if err := errors.ValidateRepositoryURL(c.Repository.Root); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "repository root")
		}
	}
	switch {
	case c.Resolve.Workers < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be at least 1, got %d", c.Resolve.Workers)
	case c.Repository.RateLimit < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "rate_limit must not be negative")
	case c.Repository.Retries < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "retries must be at least 1, got %d", c.Repository.Retries)
	case c.Analysis.MaxCycleLength < 0 || c.Analysis.MaxCycles < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "cycle limits must not be negative")
	case c.Output.Dir == "":
		return errors.New(errors.ErrCodeInvalidConfig, "output dir is required")
	}
	switch c.Checkpoint.Backend {
	case BackendFile:
		if c.Checkpoint.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "checkpoint path is required for the file backend")
		}
	case BackendRedis:
		if c.Checkpoint.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown checkpoint backend %q", c.Checkpoint.Backend)
	}
	return nil
}

// RootURL returns the repository root with a trailing slash, so that
// relative listing links resolve beneath it.
func (c *Config) RootURL() string {
	root := c.Repository.Root
	if root != "" && !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return root
}

// OutputPath joins name onto the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Output.Dir, name)
}

// String renders c as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
