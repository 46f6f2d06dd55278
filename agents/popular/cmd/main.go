package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bilitrends/agents/popular"
	"bilitrends/shared/config"
	"bilitrends/shared/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single snapshot and exit instead of scheduling")
	pageSize := flag.Int("ps", 0, "videos per page (1-100, overrides config)")
	startPage := flag.Int("pn", 0, "start page (overrides config)")
	maxPages := flag.Int("pages", 0, "number of pages to fetch (overrides config)")
	formats := flag.String("formats", "", "comma-separated export formats: json,csv,markdown (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *pageSize != 0 {
		cfg.Fetch.PageSize = *pageSize
	}
	if *startPage != 0 {
		cfg.Fetch.StartPage = *startPage
	}
	if *maxPages != 0 {
		cfg.Fetch.MaxPages = *maxPages
	}
	if *formats != "" {
		cfg.Export.Formats = strings.Split(*formats, ",")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid parameters: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := popular.New(cfg)
	s := scheduler.New(cfg, agent)

	if *once {
		fmt.Println("Running once...")
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}

		if err := s.RunOnce(ctx); err != nil {
			log.Fatalf("Failed to run: %v", err)
		}
		return
	}

	fmt.Println("Starting scheduler...")
	if err := s.Start(ctx); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}
