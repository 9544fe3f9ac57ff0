package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"basegraph.app/bff/common/logger"
	"basegraph.app/bff/core/config"
	"basegraph.app/bff/internal/client"
	"basegraph.app/bff/internal/model"
)

func main() {
	cfg := config.Load()

	// stdout carries the generated query; logs go to stderr.
	slog.SetDefault(slog.New(logger.NewHandler(cfg, os.Stderr)))

	server := flag.String("server", cfg.Client.ServerURL, "query generation server base URL")
	schemaPath := flag.String("schema", "", "path to a GraphQL schema file")
	storyPath := flag.String("story", "", "path to a user story file")
	history := flag.Int("history", 0, "list the N most recent generations instead of generating")
	timeout := flag.Duration("timeout", 3*time.Minute, "request timeout")
	flag.Parse()

	c, err := client.New(*server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *history > 0 {
		records, err := c.History(ctx, *history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "history error: %v\n", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			fmt.Println("no history yet")
			return
		}
		for _, r := range records {
			fmt.Printf("# %s  %d\n# %s\n%s\n\n", r.CreatedAt.Format(time.RFC3339), r.ID, firstLine(r.UserStory), r.GeneratedQuery)
		}
		return
	}

	req := model.GenerationRequest{
		Schema:    readOptional(*schemaPath),
		UserStory: readOptional(*storyPath),
	}

	// Empty inputs are sent as-is; the server reports which one is missing.
	result := c.Generate(ctx, req)
	if !result.Success {
		fmt.Fprintf(os.Stderr, "generation failed: %s\n", result.Error)
		if result.Details != "" {
			fmt.Fprintf(os.Stderr, "details: %s\n", result.Details)
		}
		os.Exit(1)
	}
	fmt.Println(result.Data)
}

func readOptional(path string) string {
	if path == "" {
		return ""
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		os.Exit(1)
	}
	return string(raw)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
