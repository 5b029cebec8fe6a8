// README: One-shot agent run against the live Places and chat providers; prints the enriched JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"tripwise/internal/agent"
	"tripwise/internal/ai"
	"tripwise/internal/config"
	"tripwise/internal/logger"
	"tripwise/internal/maps"
	"tripwise/internal/placecache"
	"tripwise/internal/scoring"
	"tripwise/internal/types"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("agent_demo", flag.ContinueOnError)
	var (
		place    = fs.String("place", "Kyoto", "trip destination name")
		lat      = fs.Float64("lat", 35.0116, "trip latitude")
		lng      = fs.Float64("lng", 135.7681, "trip longitude")
		planned  = fs.String("planned", "Fushimi Inari Taisha", "comma-separated attractions already planned")
		personas = fs.String("personas", "history_buff", "comma-separated personas")
		message  = fs.String("message", "What else should I see, and where should I eat nearby?", "user message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.NewStructured(cfg.Log.Level, "console")
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Agent.Timeout)
	defer cancel()

	places, err := maps.NewPlacesService(cfg.Maps.APIKey, maps.WithLanguage(cfg.Maps.Language))
	if err != nil {
		return fmt.Errorf("places init: %w", err)
	}
	cache := placecache.NewStore(nil, places, cfg.Cache.TTL, log)

	chat, closeChat, err := ai.NewChatClient(ctx, cfg.AI.ProviderConfig())
	if err != nil {
		return fmt.Errorf("chat provider init: %w", err)
	}
	defer func() { _ = closeChat() }()

	a := agent.New(chat, placecache.NewCachingSearcher(places, cache, log), cache, log, agent.Config{
		Temperature: &cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	})

	in := agent.SuggestInput{
		PlaceName:          *place,
		Location:           types.Point{Lat: *lat, Lng: *lng},
		PlannedAttractions: splitList(*planned),
		Message:            *message,
	}
	for _, p := range splitList(*personas) {
		in.Personas = append(in.Personas, scoring.ParsePersona(p))
	}

	fmt.Printf("User: %s\n", in.Message)
	resp, err := a.Suggest(ctx, in)
	if err != nil {
		return fmt.Errorf("agent run: %w", err)
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
