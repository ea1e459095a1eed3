package util

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ruleforge/ruleforge/internal/build"
	"github.com/ruleforge/ruleforge/internal/cli/shared"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for ruleforge",
		Example: `  # Show version info
  ruleforge version

  # Plain output (for scripts)
  ruleforge version --plain`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			plain, _ := cmd.Flags().GetBool("plain")
			if plain {
				printPlainVersion(cmd.OutOrStdout())
			} else {
				printPrettyVersion(cmd.OutOrStdout())
			}
		},
	}
	cmd.GroupID = shared.GroupGettingStarted
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "ruleforge %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	suffix := ""
	if build.IsDevBuild() {
		suffix = " " + yellow("(development build)")
	}
	fmt.Fprintf(w, "%s %s%s\n\n", cyan("ruleforge"), build.Version, suffix)
	info := []struct {
		label string
		value string
	}{
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
	for _, item := range info {
		fmt.Fprintf(w, "  %s  %s\n", yellow(fmt.Sprintf("%-8s", item.label)), item.value)
	}
}

// truncateCommit shortens a commit hash to 8 characters
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
