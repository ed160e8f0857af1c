package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Akashdeep-Patra/pigit-go/internal/alias"
	"github.com/Akashdeep-Patra/pigit-go/internal/app"
	"github.com/Akashdeep-Patra/pigit-go/internal/config"
	"github.com/Akashdeep-Patra/pigit-go/internal/git"
	"github.com/Akashdeep-Patra/pigit-go/internal/logging"
	"github.com/Akashdeep-Patra/pigit-go/internal/watcher"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	// The TUI mostly waits on git subprocesses and terminal input, so two
	// OS threads are plenty. An explicit GOMAXPROCS wins.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(min(2, runtime.NumCPU()))
	}
	debug.SetMemoryLimit(50 * 1024 * 1024)
}

func main() {
	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var status exitStatus
		if !errors.As(err, &status) {
			fmt.Fprintln(os.Stderr, color.RedString("pigit: %v", err))
		}
		os.Exit(exitCode(err))
	}
}

// exitStatus carries the exit code of a passthrough git command that has
// already reported its own error.
type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// exitCode maps an error to the process exit code: 2 outside a repository,
// 3 when git cannot run, 1 otherwise.
func exitCode(err error) int {
	var status exitStatus
	switch {
	case err == nil:
		return 0
	case errors.As(err, &status):
		return int(status)
	case errors.Is(err, git.ErrNotARepository):
		return 2
	case errors.Is(err, git.ErrVCSUnavailable):
		return 3
	}
	return 1
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pigit",
		Short: "A terminal UI for everyday git",
		Long: `pigit is a keyboard-driven terminal UI for git.

Run it without arguments inside a repository to browse changes, stage
files or single hunks, commit, discard and switch branches. The cmd
subcommand runs short git aliases and info prints a repository summary.`,
		Args:          cobra.NoArgs,
		RunE:          runApp,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pigit %s\n  commit:  %s\n  built:   %s\n  go:      %s\n  os/arch: %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	))

	rootCmd.AddCommand(buildAliasCmd())
	rootCmd.AddCommand(buildInfoCmd())
	rootCmd.AddCommand(buildVersionCmd())
	rootCmd.AddCommand(buildCompletionCmd())

	rootCmd.PersistentFlags().StringP("path", "p", ".", "Path to the git repository")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/pigit/config.yaml)")
	rootCmd.Flags().Bool("superproject", false, "Open the superproject when started inside a submodule")

	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("pigit: config: %s", w))
	}
	return cfg, nil
}

func resolveRepo(cmd *cobra.Command, cfg *config.Config, log *zap.Logger) (git.Repo, error) {
	path, _ := cmd.Flags().GetString("path")
	exclude := cfg.ExcludeSubmodule
	if f := cmd.Flags().Lookup("superproject"); f != nil && f.Changed {
		exclude, _ = cmd.Flags().GetBool("superproject")
	}
	return git.Resolve(cmd.Context(), path, git.ResolveOptions{
		ExcludeSubmodule: exclude,
		Timeout:          cfg.GitTimeout,
		Log:              log,
	})
}

var errNoTerminal = errors.New("the interactive UI needs a terminal; use `pigit cmd` or `pigit info` in scripts")

var interactive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runApp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	repo, err := resolveRepo(cmd, cfg, log)
	if err != nil {
		return err
	}
	if !interactive() {
		return errNoTerminal
	}
	log.Info("session start", zap.String("root", repo.Root), zap.String("version", version))

	runner := git.NewExecRunner(repo.Root, cfg.GitTimeout, log)
	var probe git.Probe = git.NewCLIProbe(runner, log)
	var invalidators []git.Invalidator
	if cfg.ProbeCacheTTL > 0 {
		cached := git.NewCachedProbe(probe, cfg.ProbeCacheTTL)
		probe = cached
		invalidators = append(invalidators, cached)
	}
	loader := git.NewLoader(probe, log)
	invalidators = append(invalidators, loader)
	dispatcher := git.NewDispatcher(runner, repo.Root, log, invalidators...)

	opts := app.Options{
		Context:      cmd.Context(),
		RepoRoot:     repo.Root,
		HelpShowtime: cfg.HelpShowtime(),
		Describe:     alias.Describe,
		Invalidators: invalidators,
		Log:          log,
	}
	if cfg.Watch {
		w, err := watcher.New(watcher.Options{
			GitDir:   repo.GitDir,
			Debounce: cfg.WatchDebounce,
			Jitter:   true,
			Log:      log,
		})
		if err != nil {
			log.Warn("watcher disabled", zap.Error(err))
		} else {
			defer func() { _ = w.Close() }()
			opts.Events = w.Events()
		}
	}

	p := tea.NewProgram(app.New(loader, dispatcher, opts), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// buildVersionCmd creates the `pigit version` subcommand supporting --json.
func buildVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			info := map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			}
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintf(out, "pigit %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
			fmt.Fprintf(out, "  go:      %s\n", runtime.Version())
			fmt.Fprintf(out, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	return cmd
}

// buildCompletionCmd creates the `pigit completion` subcommand.
func buildCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pigit.

Examples:
  pigit completion bash > /etc/bash_completion.d/pigit
  pigit completion zsh > "${fpath[1]}/_pigit"
  pigit completion fish > ~/.config/fish/completions/pigit.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
