package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Akashdeep-Patra/pigit-go/internal/alias"
	"github.com/Akashdeep-Patra/pigit-go/internal/config"
	"github.com/Akashdeep-Patra/pigit-go/internal/git"
)

func buildAliasCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "cmd <alias> [args...]",
		Short: "Run a git shortcut",
		Long: `Run a short git alias. Extra arguments are passed to git unchanged.

Examples:
  pigit cmd ws           # git status --short
  pigit cmd ia src/      # git add src/
  pigit cmd --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				printAliases(cmd.OutOrStdout())
				return nil
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			argv, err := expandAlias(cmd.ErrOrStderr(), cfg, args[0], args[1:])
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("path")
			return runGit(cmd.Context(), path, argv)
		},
	}
	// Everything after the alias belongs to git.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List every alias by category")
	return cmd
}

// expandAlias resolves name to git arguments, printing the expanded command
// or suggestions to w as configured.
func expandAlias(w io.Writer, cfg *config.Config, name string, user []string) ([]string, error) {
	c, ok := alias.Lookup(name)
	if !ok {
		if cfg.CmdRecommend {
			if s := alias.Suggest(name, 3); len(s) > 0 {
				fmt.Fprintf(w, "%s %s\n", color.YellowString("did you mean:"), strings.Join(s, ", "))
			}
		}
		return nil, fmt.Errorf("unknown alias %q (see pigit cmd --list)", name)
	}
	argv := c.Argv(user)
	if cfg.CmdShowOriginal {
		fmt.Fprintln(w, color.New(color.FgCyan, color.Bold).Sprint("git "+strings.Join(argv, " ")))
	}
	return argv, nil
}

// runGit runs git attached to the terminal so pagers and editors work.
func runGit(ctx context.Context, dir string, argv []string) error {
	c := exec.CommandContext(ctx, "git", argv...)
	c.Dir = dir
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	err := c.Run()
	var ee *exec.ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ee):
		return exitStatus(ee.ExitCode())
	}
	return fmt.Errorf("%w: %w", git.ErrVCSUnavailable, err)
}

func printAliases(w io.Writer) {
	heading := color.New(color.FgYellow, color.Bold)
	name := color.New(color.FgGreen)
	muted := color.New(color.FgHiBlack)

	byCat := alias.ByCategory()
	for _, cat := range alias.Categories {
		cmds := byCat[cat]
		if len(cmds) == 0 {
			continue
		}
		heading.Fprintf(w, "[%s]\n", cat)
		for _, c := range cmds {
			fmt.Fprintf(w, "  %s %-36s %s\n", name.Sprintf("%-6s", c.Alias), c.Template(), muted.Sprint(c.Help))
		}
		fmt.Fprintln(w)
	}
}
