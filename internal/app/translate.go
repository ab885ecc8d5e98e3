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
	"horse.fit/quill/internal/language"
	"horse.fit/quill/internal/markdown"
	"horse.fit/quill/internal/post"
	"horse.fit/quill/internal/translation"
)

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	lang := fs.String("lang", "", "Target language code (for example: FR, EN-GB)")
	out := fs.String("out", "", "Write the translated post here instead of overwriting the input")
	asJSON := fs.Bool("json", false, "Print the confirmation as JSON")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if len(positional) != 1 {
		fmt.Fprintln(os.Stderr, "translate requires one post file")
		printTranslateUsage()
		return 2
	}

	targetLang := language.CatalogCode(*lang)
	if targetLang == "" {
		fmt.Fprintln(os.Stderr, "--lang is required and must be a valid language code")
		return 2
	}

	store := post.NewFileStore(positional[0], strings.TrimSpace(*out), markdown.NewRenderer(markdown.CommentOptions()))

	ctx, cancel := commandContext(*timeout)
	defer cancel()

	p, err := store.Load(ctx)
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

	manager, client, err := rt.newManager(ctx, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translation setup failed: %v\n", err)
		return 1
	}

	confirmation, err := manager.TranslatePost(ctx, p, targetLang)
	if err != nil {
		var stageErr *translation.StageError
		if errors.As(err, &stageErr) {
			fmt.Fprintf(os.Stderr, "Translate post failed at %s (%s): %v\n", stageErr.Stage, translation.KindOf(err), stageErr.Err)
		} else {
			fmt.Fprintf(os.Stderr, "Translate post failed: %v\n", err)
		}
		return 1
	}

	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(confirmation); err != nil {
			fmt.Fprintf(os.Stderr, "Encode confirmation failed: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Println(confirmation.Message)
	fmt.Printf(
		"translate post=%d lang=%s source=%s provider=%s comments=%d run_id=%s out=%s\n",
		confirmation.PostID,
		confirmation.TargetLang,
		confirmation.DetectedSourceLang,
		client.ProviderName(),
		len(confirmation.Comments),
		confirmation.RunID,
		store.OutPath(),
	)
	return 0
}

// parseInterspersed parses flags that may appear before or after positional
// arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func printTranslateUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  quill translate <post.json> --lang <lang> [--out translated.json] [--json] [--env .env] [--timeout 2m]")
}
