package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "languages":
		return runLanguages(args[1:])
	case "translate":
		return runTranslate(args[1:])
	case "status":
		return runStatus(args[1:])
	case "comment-limit":
		return runCommentLimit(args[1:])
	case "prune-cache":
		return runPruneCache(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "quill CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  quill <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health         Verify cache backend and translation provider")
	fmt.Fprintln(os.Stderr, "  validate       Validate post JSON files against the v1 schema")
	fmt.Fprintln(os.Stderr, "  languages      List supported source and target languages")
	fmt.Fprintln(os.Stderr, "  translate      Translate a post and its comments")
	fmt.Fprintln(os.Stderr, "  status         Show the last translation outcome for a post")
	fmt.Fprintln(os.Stderr, "  comment-limit  Record one comment attempt against the rate limit")
	fmt.Fprintln(os.Stderr, "  prune-cache    Delete expired rows from the postgres cache")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"quill <command> -h\" for command-specific flags.")
}
