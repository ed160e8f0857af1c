// Package config loads pigit's settings. The interactive controller only
// ever reads them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved application configuration.
type Config struct {
	// CmdShowOriginal prints the expanded git command before running an alias.
	CmdShowOriginal bool `mapstructure:"cmd_show_original"`
	// CmdRecommend suggests similar aliases for an unknown one.
	CmdRecommend bool `mapstructure:"cmd_recommend"`
	// TUIHelpShowtime is how long the help overlay stays up, in seconds.
	// Zero keeps it until a key is pressed.
	TUIHelpShowtime float64 `mapstructure:"tui_help_showtime"`
	// CounterUseGitignore makes the code counter honour .gitignore.
	CounterUseGitignore bool `mapstructure:"counter_use_gitignore"`
	// RepoInfoInclude selects the sections printed by `pigit info`.
	RepoInfoInclude []string `mapstructure:"repo_info_include"`

	GitTimeout       time.Duration `mapstructure:"git_timeout"`
	ProbeCacheTTL    time.Duration `mapstructure:"probe_cache_ttl"`
	Watch            bool          `mapstructure:"watch"`
	WatchDebounce    time.Duration `mapstructure:"watch_debounce"`
	ExcludeSubmodule bool          `mapstructure:"exclude_submodule"`

	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`

	// Warnings lists values that were ignored or adjusted while loading.
	Warnings []string `mapstructure:"-"`
	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Load reads config.yaml from the pigit config directory or the working
// directory. A non-empty file overrides the search and must exist.
// PIGIT_* environment variables override both.
func Load(file string) (*Config, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDirectory())
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("PIGIT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.normalize()
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(err)
	}
	cfg.normalize()
	return cfg
}

func (c *Config) normalize() {
	if c.TUIHelpShowtime < 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("tui_help_showtime %v is negative, using 0", c.TUIHelpShowtime))
		c.TUIHelpShowtime = 0
	}
	if c.GitTimeout <= 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("git_timeout %v is not positive, using %v", c.GitTimeout, defaultGitTimeout))
		c.GitTimeout = defaultGitTimeout
	}
	kept := c.RepoInfoInclude[:0]
	for _, s := range c.RepoInfoInclude {
		if slices.Contains(InfoSections, s) {
			kept = append(kept, s)
			continue
		}
		c.Warnings = append(c.Warnings, fmt.Sprintf("repo_info_include: unknown section %q", s))
	}
	c.RepoInfoInclude = kept
}

// HelpShowtime returns the help overlay duration.
func (c *Config) HelpShowtime() time.Duration {
	return time.Duration(c.TUIHelpShowtime * float64(time.Second))
}

// Includes reports whether `pigit info` should print section.
func (c *Config) Includes(section string) bool {
	return slices.Contains(c.RepoInfoInclude, section)
}

func configDirectory() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pigit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pigit")
}
