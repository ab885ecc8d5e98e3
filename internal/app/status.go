package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/quill/internal/cli"
	"horse.fit/quill/internal/post"
	"horse.fit/quill/internal/translation"
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
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
	if len(positional) != 1 {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  quill status <post.json> [--env .env] [--timeout 10s]")
		return 2
	}

	ctx, cancel := commandContext(*timeout)
	defer cancel()

	p, err := post.NewFileStore(positional[0], "", nil).Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load post failed: %v\n", err)
		return 1
	}

	rt, err := openRuntime(ctx, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.Close()

	if rt.pool == nil {
		fmt.Fprintln(os.Stderr, "status requires CACHE_BACKEND=postgres; the in-process cache does not keep runs")
		return 2
	}

	// Reading status needs no provider, so the catalog is not fetched here.
	status, err := translation.LoadStatus(ctx, rt.cache, p.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read status failed: %v\n", err)
		return 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(status); err != nil {
		fmt.Fprintf(os.Stderr, "Encode status failed: %v\n", err)
		return 1
	}
	return 0
}
