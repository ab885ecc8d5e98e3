package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/quill/internal/cli"
	"horse.fit/quill/internal/translation"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 15*time.Second, "Health check timeout")
	skipProvider := fs.Bool("skip-provider", false, "Only check the cache backend")

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
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		return 1
	}
	defer rt.Close()

	if rt.pool != nil {
		if err := rt.pool.Ping(ctx); err != nil {
			rt.logger.Error().Err(err).Msg("health check failed")
			fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
			return 1
		}
		fmt.Println("ok: database ping successful")
	} else {
		fmt.Println("ok: in-process cache ready")
	}

	if *skipProvider {
		return 0
	}

	client, err := rt.newClient(ctx)
	if err != nil {
		rt.logger.Error().Err(err).Msg("health check failed")
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		return 1
	}

	status := client.CatalogStatus()
	switch status.State {
	case translation.CatalogUnavailable:
		rt.logger.Error().Err(status.Err).Str("provider", client.ProviderName()).Msg("translation catalog unavailable")
		fmt.Fprintf(os.Stderr, "Health check failed: %s catalog unavailable: %v\n", client.ProviderName(), status.Err)
		return 1
	case translation.CatalogEmpty:
		fmt.Printf("warn: %s returned no supported language pairs\n", client.ProviderName())
	default:
		fmt.Printf("ok: %s catalog has %d source languages\n", client.ProviderName(), status.Sources)
	}

	rt.logger.Info().
		Dur("timeout", *timeout).
		Str("provider", client.ProviderName()).
		Str("catalog_state", string(status.State)).
		Msg("health check passed")
	return 0
}
