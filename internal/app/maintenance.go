package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/quill/internal/cli"
	"horse.fit/quill/internal/ratelimit"
)

func runCommentLimit(args []string) int {
	fs := flag.NewFlagSet("comment-limit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Command timeout")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if len(positional) != 1 || strings.TrimSpace(positional[0]) == "" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  quill comment-limit <user-id|remote-addr> [--env .env] [--timeout 10s]")
		return 2
	}

	ctx, cancel := commandContext(*timeout)
	defer cancel()

	rt, err := openRuntime(ctx, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.Close()

	// The in-process cache does not outlive the command, so counts would reset every run.
	if rt.pool == nil {
		fmt.Fprintln(os.Stderr, "comment-limit requires CACHE_BACKEND=postgres")
		return 2
	}

	limiter, err := ratelimit.NewFixedWindow(rt.cache, rt.cfg.CommentRateLimit, rt.cfg.CommentRateWindow)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Rate limiter setup failed: %v\n", err)
		return 1
	}

	decision, err := limiter.Allow(ctx, positional[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Rate limit check failed: %v\n", err)
		return 1
	}

	fmt.Printf(
		"comment-limit subject=%s allowed=%t remaining=%d reset_at=%s\n",
		strings.TrimSpace(positional[0]),
		decision.Allowed,
		decision.Remaining,
		decision.ResetAt.Format(time.RFC3339),
	)
	if !decision.Allowed {
		return 1
	}
	return 0
}

func runPruneCache(args []string) int {
	fs := flag.NewFlagSet("prune-cache", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", time.Minute, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	ctx, cancel := commandContext(*timeout)
	defer cancel()

	rt, err := openRuntime(ctx, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.Close()

	if rt.pool == nil {
		fmt.Fprintln(os.Stderr, "prune-cache requires CACHE_BACKEND=postgres")
		return 2
	}

	deleted, err := rt.pool.DeleteExpiredCacheEntries(ctx, time.Now().UTC())
	if err != nil {
		rt.logger.Error().Err(err).Msg("prune cache failed")
		fmt.Fprintf(os.Stderr, "Prune cache failed: %v\n", err)
		return 1
	}

	rt.logger.Info().Int64("deleted", deleted).Msg("expired cache entries pruned")
	fmt.Printf("prune-cache deleted=%d\n", deleted)
	return 0
}
