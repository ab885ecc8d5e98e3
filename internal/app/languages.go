package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/quill/internal/cli"
	"horse.fit/quill/internal/translation"
)

type languagesOutput struct {
	Provider string                       `json:"provider"`
	State    translation.CatalogState     `json:"state"`
	Catalog  translation.Catalog          `json:"catalog"`
	Options  []translation.LanguageOption `json:"options"`
}

func runLanguages(args []string) int {
	fs := flag.NewFlagSet("languages", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Catalog fetch timeout")
	asJSON := fs.Bool("json", false, "Print the catalog and labeled options as JSON")

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

	client, err := rt.newClient(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translation setup failed: %v\n", err)
		return 1
	}

	catalog := client.Catalog()
	status := client.CatalogStatus()

	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(languagesOutput{
			Provider: client.ProviderName(),
			State:    status.State,
			Catalog:  catalog,
			Options:  translation.LanguageOptions(catalog),
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Encode catalog failed: %v\n", err)
			return 1
		}
	} else {
		fmt.Printf("languages provider=%s state=%s sources=%d\n", client.ProviderName(), status.State, status.Sources)
		for _, source := range catalog.Sources() {
			fmt.Printf("%s -> %s\n", source, strings.Join(catalog.Targets(source), " "))
		}
	}

	if status.State == translation.CatalogUnavailable {
		fmt.Fprintf(os.Stderr, "Catalog unavailable: %v\n", status.Err)
		return 1
	}
	return 0
}
