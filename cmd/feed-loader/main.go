package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"phishguard/internal/threat"
)

func main() {
	file := flag.String("file", "", "local feed file")
	feedURL := flag.String("url", "", "remote feed URL")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store := threat.NewBloomStore(1_000_000, 0.001, logger)
	controller := threat.NewETLController(store, logger)
	if *file != "" {
		controller.Register(threat.NewFileFetcher(*file))
	}
	if *feedURL != "" {
		controller.Register(threat.NewHTTPFetcher(*feedURL))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := controller.Run(ctx); err != nil {
		logger.Error("etl run failed", "err", err)
		os.Exit(1)
	}
	fmt.Printf("loaded %d indicators\n", store.Count())

	for _, u := range flag.Args() {
		fmt.Printf("%s\tlisted=%t\tdomain=%s\n", u, store.Listed(u), threat.RegistrableDomain(u))
	}
}
