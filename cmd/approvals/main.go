package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"guest_reviews/internal/adapters/google"
	"guest_reviews/internal/adapters/hostaway"
	"guest_reviews/internal/adapters/observability"
	"guest_reviews/internal/app"
	"guest_reviews/internal/domain"
	"guest_reviews/internal/shared"
	"guest_reviews/internal/storage/file"
)

const usage = `usage: approvals [-timeout 30s] <command> [args]

commands:
  list                 print approved review ids
  toggle <id>          flip approval of one review
  import <file.json>   merge ids from an exported approvedReviewIds array
  sources [listing]    fetch both sources and print the combined summary
`

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, closeStore, err := shared.OpenApprovalStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("approval store init failed")
	}
	defer closeStore()
	svc := app.NewApprovalService(store)

	args := flag.Args()
	switch args[0] {
	case "list":
		set, err := store.Load(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("load approvals failed")
		}
		printJSON(map[string]any{"approvedIds": set.IDs()})

	case "toggle":
		if len(args) != 2 {
			flag.Usage()
			os.Exit(2)
		}
		id := domain.ParseReviewID(args[1])
		_, approved, err := svc.Toggle(ctx, id)
		if err != nil {
			log.Fatal().Err(err).Str("review_id", id.String()).Msg("toggle failed")
		}
		printJSON(map[string]any{"id": id, "approved": approved})

	case "import":
		if len(args) != 2 {
			flag.Usage()
			os.Exit(2)
		}
		// the file store reads both the legacy array and the versioned document
		legacy, err := file.New(args[1]).Load(ctx)
		if err != nil {
			log.Fatal().Err(err).Str("file", args[1]).Msg("read import file failed")
		}
		added, err := svc.Import(ctx, legacy.IDs())
		if err != nil {
			log.Fatal().Err(err).Msg("import failed")
		}
		log.Info().Int("read", len(legacy)).Int("added", added).Str("store", cfg.ApprovalStore).Msg("import completed")

	case "sources":
		listing := ""
		if len(args) > 1 {
			listing = args[1]
		}
		hc, err := hostaway.New(cfg.HostawayBase, cfg.HostawayToken, cfg.SourceRPS, cfg.RequestTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Hostaway client")
		}
		gc, err := google.New(cfg.GoogleBase, cfg.GoogleKey, cfg.SourceRPS, cfg.RequestTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Google client")
		}
		res, err := app.NewQueryService(hc, gc, svc).Combined(ctx, listing)
		if err != nil {
			log.Fatal().Err(err).Msg("combined fetch failed")
		}
		printJSON(res.Summary)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("write output failed")
	}
}
