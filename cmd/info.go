package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Akashdeep-Patra/pigit-go/internal/config"
	"github.com/Akashdeep-Patra/pigit-go/internal/git"
)

func buildInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print a repository summary",
		Long: `Print a summary of the repository. The sections shown are chosen by
repo_info_include in the config file: path, remote, branch, log, summary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			repo, err := resolveRepo(cmd, cfg, nil)
			if err != nil {
				return err
			}
			runner := git.NewExecRunner(repo.Root, cfg.GitTimeout, nil)
			loader := git.NewLoader(git.NewCLIProbe(runner, nil), nil)
			r := &infoReport{ctx: cmd.Context(), repo: repo, runner: runner, loader: loader}
			return r.write(cmd.OutOrStdout(), cfg)
		},
	}
}

type infoReport struct {
	ctx    context.Context
	repo   git.Repo
	runner git.Runner
	loader *git.Loader
	snap   *git.Snapshot
}

var infoHeading = color.New(color.FgCyan, color.Bold)

func (r *infoReport) write(w io.Writer, cfg *config.Config) error {
	for _, sec := range config.InfoSections {
		if !cfg.Includes(sec) {
			continue
		}
		infoHeading.Fprintf(w, "[%s]\n", sec)
		var err error
		switch sec {
		case "path":
			fmt.Fprintf(w, "  root:    %s\n  git dir: %s\n", r.repo.Root, r.repo.GitDir)
		case "remote":
			err = r.lines(w, "(no remotes)", "remote", "-v")
		case "branch":
			err = r.branch(w)
		case "log":
			err = r.lines(w, "(no commits)", "log", "--oneline", "--no-color", "--decorate", "-n", "10")
		case "summary":
			err = r.summary(w)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (r *infoReport) snapshot() (*git.Snapshot, error) {
	if r.snap != nil {
		return r.snap, nil
	}
	snap, err := r.loader.Load(r.ctx)
	if err != nil {
		return nil, err
	}
	r.snap = snap
	return snap, nil
}

// lines prints git's output indented. A git failure prints empty instead,
// since an unborn branch has no log.
func (r *infoReport) lines(w io.Writer, empty string, args ...string) error {
	res, err := r.runner.Run(r.ctx, git.Request{Args: args})
	if errors.Is(err, git.ErrVCSUnavailable) {
		return err
	}
	out := strings.TrimRight(string(res.Stdout), "\n")
	if err != nil || out == "" {
		fmt.Fprintf(w, "  %s\n", color.HiBlackString(empty))
		return nil
	}
	for _, l := range strings.Split(out, "\n") {
		fmt.Fprintf(w, "  %s\n", l)
	}
	return nil
}

func (r *infoReport) branch(w io.Writer) error {
	snap, err := r.snapshot()
	if err != nil {
		return err
	}
	cur := snap.Current()
	fmt.Fprintf(w, "  current:  %s\n", color.GreenString(cur.Name))
	if cur.Upstream != "" {
		track := cur.Upstream
		switch {
		case cur.Gone:
			track += " (gone)"
		case cur.Ahead > 0 || cur.Behind > 0:
			track += fmt.Sprintf(" (ahead %d, behind %d)", cur.Ahead, cur.Behind)
		}
		fmt.Fprintf(w, "  upstream: %s\n", track)
	}
	fmt.Fprintf(w, "  local:    %d branch(es)\n", len(snap.Branches()))
	return nil
}

func (r *infoReport) summary(w io.Writer) error {
	snap, err := r.snapshot()
	if err != nil {
		return err
	}
	if snap.Len() == 0 {
		fmt.Fprintf(w, "  %s\n", color.GreenString("working tree clean"))
		return nil
	}
	for _, sec := range git.Sections {
		if n := snap.Count(sec); n > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", sec.String()+":", n)
		}
	}
	return nil
}
