package config

import (
	"time"

	"github.com/spf13/viper"
)

const defaultGitTimeout = 30 * time.Second

// InfoSections are the valid repo_info_include values, in print order.
var InfoSections = []string{"path", "remote", "branch", "log", "summary"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cmd_show_original", true)
	v.SetDefault("cmd_recommend", true)
	v.SetDefault("tui_help_showtime", 1.5)
	v.SetDefault("counter_use_gitignore", true)
	v.SetDefault("repo_info_include", []string{"remote", "branch", "log"})
	v.SetDefault("git_timeout", defaultGitTimeout)
	v.SetDefault("probe_cache_ttl", time.Second)
	v.SetDefault("watch", true)
	v.SetDefault("watch_debounce", 500*time.Millisecond)
	v.SetDefault("exclude_submodule", false)
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
}
