// Package alias holds the table of short git commands run by `pigit cmd`.
package alias

import (
	"slices"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Category groups related aliases.
type Category string

const (
	CategoryBranch      Category = "Branch"
	CategoryCommit      Category = "Commit"
	CategoryConflict    Category = "Conflict"
	CategoryIndex       Category = "Index"
	CategoryLog         Category = "Log"
	CategoryMerge       Category = "Merge"
	CategoryStash       Category = "Stash"
	CategoryTag         Category = "Tag"
	CategoryWorkingTree Category = "Working tree"
	CategorySubmodule   Category = "Submodule"
	CategorySetting     Category = "Setting"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBranch, CategoryCommit, CategoryConflict, CategoryIndex, CategoryLog,
	CategoryMerge, CategoryStash, CategoryTag, CategoryWorkingTree, CategorySubmodule,
	CategorySetting,
}

// Command is one alias. Args are passed to git after any user arguments
// are appended; DefaultArgs replace missing user arguments.
type Command struct {
	Alias       string
	Args        []string
	DefaultArgs []string
	NeedsArgs   bool
	Category    Category
	Help        string
}

// Template renders the git command line for display.
func (c Command) Template() string {
	return "git " + strings.Join(c.Args, " ")
}

// Argv returns the git arguments for a call with user args.
func (c Command) Argv(user []string) []string {
	argv := slices.Clone(c.Args)
	if len(user) == 0 {
		user = c.DefaultArgs
	}
	return append(argv, user...)
}

var table = []Command{
	{Alias: "b", Args: []string{"branch"}, NeedsArgs: true, Category: CategoryBranch, Help: "lists, creates, renames, and deletes branches."},
	{Alias: "bc", Args: []string{"checkout", "-b"}, NeedsArgs: true, Category: CategoryBranch, Help: "creates a new branch."},
	{Alias: "bl", Args: []string{"branch", "-vv"}, Category: CategoryBranch, Help: "lists branches and their commits."},
	{Alias: "bL", Args: []string{"branch", "--all", "-vv"}, Category: CategoryBranch, Help: "lists local and remote branches and their commits."},
	{Alias: "bs", Args: []string{"show-branch"}, Category: CategoryBranch, Help: "lists branches and their commits with ancestry graphs."},
	{Alias: "bm", Args: []string{"branch", "--move"}, NeedsArgs: true, Category: CategoryBranch, Help: "renames a branch."},
	{Alias: "bd", Args: []string{"branch", "-d"}, NeedsArgs: true, Category: CategoryBranch, Help: "delete a local branch by name."},

	{Alias: "c", Args: []string{"commit", "--verbose"}, Category: CategoryCommit, Help: "records changes to the repository."},
	{Alias: "ca", Args: []string{"commit", "--verbose", "--all"}, Category: CategoryCommit, Help: "commits all modified and deleted files."},
	{Alias: "cm", Args: []string{"commit", "--verbose", "--message"}, NeedsArgs: true, Category: CategoryCommit, Help: "commits with the given message."},
	{Alias: "co", Args: []string{"checkout"}, NeedsArgs: true, Category: CategoryCommit, Help: "checks out a branch or paths to the working tree."},
	{Alias: "cf", Args: []string{"commit", "--amend", "--reuse-message", "HEAD"}, Category: CategoryCommit, Help: "amends the tip of the current branch reusing the same log message as HEAD."},
	{Alias: "cr", Args: []string{"revert"}, NeedsArgs: true, Category: CategoryCommit, Help: "reverts existing commits by reverting patches and recording new commits."},
	{Alias: "cR", Args: []string{"reset", "HEAD^"}, Category: CategoryCommit, Help: "removes the HEAD commit."},
	{Alias: "cs", Args: []string{"show"}, NeedsArgs: true, Category: CategoryCommit, Help: "shows one or more objects (blobs, trees, tags and commits)."},

	{Alias: "Cl", Args: []string{"--no-pager", "diff", "--diff-filter=U", "--name-only"}, Category: CategoryConflict, Help: "lists unmerged files."},
	{Alias: "Co", Args: []string{"checkout", "--ours", "--"}, NeedsArgs: true, Category: CategoryConflict, Help: "checks out our changes for unmerged paths."},
	{Alias: "Ct", Args: []string{"checkout", "--theirs", "--"}, NeedsArgs: true, Category: CategoryConflict, Help: "checks out their changes for unmerged paths."},

	{Alias: "ia", Args: []string{"add"}, DefaultArgs: []string{"."}, NeedsArgs: true, Category: CategoryIndex, Help: "adds file contents to the index (default: all files)."},
	{Alias: "iA", Args: []string{"add", "--patch"}, NeedsArgs: true, Category: CategoryIndex, Help: "adds file contents to the index interactively."},
	{Alias: "iu", Args: []string{"add", "--update"}, NeedsArgs: true, Category: CategoryIndex, Help: "adds file contents to the index (updates only known files)."},
	{Alias: "id", Args: []string{"diff", "--no-ext-diff", "--cached"}, NeedsArgs: true, Category: CategoryIndex, Help: "displays changes between the index and a named commit (diff)."},
	{Alias: "ir", Args: []string{"reset"}, NeedsArgs: true, Category: CategoryIndex, Help: "resets the current HEAD to the specified state."},
	{Alias: "ix", Args: []string{"rm", "--cached", "-r"}, NeedsArgs: true, Category: CategoryIndex, Help: "removes files from the index (recursively)."},

	{Alias: "l", Args: []string{"log", "--graph", "--all", "--decorate"}, Category: CategoryLog, Help: "display the log with good format."},
	{Alias: "l1", Args: []string{"log", "--graph", "--all", "--decorate", "--oneline"}, Category: CategoryLog, Help: "display the log with one-line."},
	{Alias: "ls", Args: []string{"log", "--topo-order", "--stat"}, Category: CategoryLog, Help: "displays the stats log."},
	{Alias: "ld", Args: []string{"log", "--topo-order", "--stat", "--patch"}, Category: CategoryLog, Help: "displays the diff log."},
	{Alias: "lc", Args: []string{"shortlog", "--summary", "--numbered"}, Category: CategoryLog, Help: "displays the commit count for each contributor in descending order."},
	{Alias: "lr", Args: []string{"reflog"}, NeedsArgs: true, Category: CategoryLog, Help: "manages reflog information."},

	{Alias: "m", Args: []string{"merge"}, NeedsArgs: true, Category: CategoryMerge, Help: "joins two or more development histories together."},
	{Alias: "ma", Args: []string{"merge", "--abort"}, Category: CategoryMerge, Help: "aborts the conflict resolution, and reconstructs the pre-merge state."},
	{Alias: "mC", Args: []string{"merge", "--no-commit"}, NeedsArgs: true, Category: CategoryMerge, Help: "performs the merge but does not commit."},
	{Alias: "mF", Args: []string{"merge", "--no-ff"}, NeedsArgs: true, Category: CategoryMerge, Help: "creates a merge commit even if the merge could be resolved as a fast-forward."},
	{Alias: "mt", Args: []string{"mergetool"}, NeedsArgs: true, Category: CategoryMerge, Help: "runs the merge conflict resolution tools to resolve conflicts."},

	{Alias: "s", Args: []string{"stash"}, NeedsArgs: true, Category: CategoryStash, Help: "stashes the changes of the dirty working directory."},
	{Alias: "sp", Args: []string{"stash", "pop"}, Category: CategoryStash, Help: "removes and applies a single stashed state from the stash list."},
	{Alias: "sl", Args: []string{"stash", "list"}, Category: CategoryStash, Help: "lists stashed states."},
	{Alias: "sd", Args: []string{"stash", "show"}, NeedsArgs: true, Category: CategoryStash, Help: "display stash list."},
	{Alias: "sD", Args: []string{"stash", "show", "--patch", "--stat"}, NeedsArgs: true, Category: CategoryStash, Help: "display stash list with detail."},

	{Alias: "t", Args: []string{"tag"}, NeedsArgs: true, Category: CategoryTag, Help: "creates, lists, deletes or verifies a tag object signed with GPG."},
	{Alias: "ta", Args: []string{"tag", "-a"}, NeedsArgs: true, Category: CategoryTag, Help: "create a new tag."},
	{Alias: "tx", Args: []string{"tag", "--delete"}, NeedsArgs: true, Category: CategoryTag, Help: "deletes tags with given names."},

	{Alias: "ws", Args: []string{"status", "--short"}, Category: CategoryWorkingTree, Help: "displays working-tree status in the short format."},
	{Alias: "wS", Args: []string{"status"}, NeedsArgs: true, Category: CategoryWorkingTree, Help: "displays working-tree status."},
	{Alias: "wd", Args: []string{"diff", "--no-ext-diff"}, NeedsArgs: true, Category: CategoryWorkingTree, Help: "displays changes between the working tree and the index (diff)."},
	{Alias: "wD", Args: []string{"diff", "--no-ext-diff", "--word-diff"}, NeedsArgs: true, Category: CategoryWorkingTree, Help: "displays changes between the working tree and the index (word diff)."},
	{Alias: "wr", Args: []string{"reset", "--soft"}, NeedsArgs: true, Category: CategoryWorkingTree, Help: "resets the current HEAD to the specified state, does not touch the index nor the working tree."},
	{Alias: "wR", Args: []string{"reset", "--hard"}, NeedsArgs: true, Category: CategoryWorkingTree, Help: "resets the current HEAD, index and working tree to the specified state."},
	{Alias: "wc", Args: []string{"clean", "--dry-run"}, NeedsArgs: true, Category: CategoryWorkingTree, Help: "cleans untracked files from the working tree (dry-run)."},
	{Alias: "wC", Args: []string{"clean", "-d", "--force"}, NeedsArgs: true, Category: CategoryWorkingTree, Help: "cleans untracked files from the working tree."},
	{Alias: "wm", Args: []string{"mv"}, NeedsArgs: true, Category: CategoryWorkingTree, Help: "moves or renames files."},
	{Alias: "wx", Args: []string{"rm", "-r"}, NeedsArgs: true, Category: CategoryWorkingTree, Help: "removes files from the working tree and from the index (recursively)."},

	{Alias: "Si", Args: []string{"submodule", "update", "--init", "--recursive"}, Category: CategorySubmodule, Help: "pull the submodule for the first time."},
	{Alias: "Sd", Args: []string{"rm", "--cached"}, NeedsArgs: true, Category: CategorySubmodule, Help: "remove submodule from repository."},
	{Alias: "SD", Args: []string{"submodule", "deinit"}, NeedsArgs: true, Category: CategorySubmodule, Help: "inverse initialization submodule, clear the dir."},

	{Alias: "user", Args: []string{"config", "user.name"}, NeedsArgs: true, Category: CategorySetting, Help: "set username."},
	{Alias: "email", Args: []string{"config", "user.email"}, NeedsArgs: true, Category: CategorySetting, Help: "set user email."},
}

var byAlias = func() map[string]Command {
	m := make(map[string]Command, len(table))
	for _, c := range table {
		m[c.Alias] = c
	}
	return m
}()

// All returns every command in table order.
func All() []Command { return slices.Clone(table) }

// Lookup finds the command for alias. Aliases are case sensitive.
func Lookup(alias string) (Command, bool) {
	c, ok := byAlias[alias]
	return c, ok
}

// Describe returns "git <sub>: <help>" for display, or "" for an unknown
// alias.
func Describe(alias string) string {
	c, ok := byAlias[alias]
	if !ok {
		return ""
	}
	return "git " + c.Args[0] + ": " + c.Help
}

// ByCategory groups the table. Aliases within a category keep table order.
func ByCategory() map[Category][]Command {
	out := make(map[Category][]Command)
	for _, c := range table {
		out[c.Category] = append(out[c.Category], c)
	}
	return out
}

type source []Command

func (s source) String(i int) string { return s[i].Alias }
func (s source) Len() int            { return len(s) }

// Suggest returns up to n aliases resembling typo, best first. Fuzzy
// matches come first; aliases sharing the first character fill the rest.
func Suggest(typo string, n int) []string {
	if typo == "" || n <= 0 {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	add := func(a string) {
		if !seen[a] && len(out) < n {
			seen[a] = true
			out = append(out, a)
		}
	}
	for _, m := range fuzzy.FindFrom(typo, source(table)) {
		add(table[m.Index].Alias)
	}
	var prefix []string
	for _, c := range table {
		if c.Alias[0] == typo[0] {
			prefix = append(prefix, c.Alias)
		}
	}
	sort.SliceStable(prefix, func(i, j int) bool { return len(prefix[i]) < len(prefix[j]) })
	for _, a := range prefix {
		add(a)
	}
	return out
}
