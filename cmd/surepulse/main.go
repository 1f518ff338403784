package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/surepulse/surepulse/internal/pkg/calculators"
	"github.com/surepulse/surepulse/internal/pkg/config"
	"github.com/surepulse/surepulse/internal/pkg/dedup"
	"github.com/surepulse/surepulse/internal/pkg/dispatch"
	"github.com/surepulse/surepulse/internal/pkg/entities"
	"github.com/surepulse/surepulse/internal/pkg/feed"
	"github.com/surepulse/surepulse/internal/pkg/health"
	"github.com/surepulse/surepulse/internal/pkg/logging"
	"github.com/surepulse/surepulse/internal/pkg/message"
	"github.com/surepulse/surepulse/internal/pkg/pipeline"
	"github.com/surepulse/surepulse/internal/pkg/validation"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	fmt.Println("Starting surepulse...")

	var configPath, envPath string
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&envPath, "env", ".env", "Path to an optional .env secrets overlay")
	flag.Parse()

	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		log.Fatalf("surepulse: failed to load config: %v", err)
	}

	stats := &health.Stats{}
	healthSrv := health.New(cfg.HTTPAddr, stats, nil)

	logger := logging.Setup("surepulse", healthEventSink{healthSrv})
	logger.Info("config loaded", "api_base", cfg.APIBase, "target_bookies", cfg.TargetBookies)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal, stopping surepulse")
		cancel()
	}()

	store, err := dedup.NewRedisStore(ctx, dedup.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		log.Fatalf("surepulse: failed to connect to dedup store: %v", err)
	}
	defer store.Close()

	bookmakers, err := buildBookmakerRegistry(cfg)
	if err != nil {
		log.Fatalf("surepulse: failed to build bookmaker registry: %v", err)
	}

	bots, err := buildBots(cfg)
	if err != nil {
		log.Fatalf("surepulse: failed to build dispatcher bots: %v", err)
	}

	dispatcher := dispatch.NewDispatcher(cfg.DispatcherMaxQueue, bots, logger)

	poller := feed.NewClient(feed.Config{
		APIBase:      cfg.APIBase,
		APIToken:     cfg.APIToken,
		Bookmakers:   cfg.APIBookmakers,
		MinOdds:      cfg.MinOdds,
		MaxOdds:      cfg.MaxOdds,
		MinProfit:    cfg.MinProfit,
		MaxProfit:    cfg.MaxProfit,
		BaseInterval: cfg.PollingBaseInterval,
		MaxInterval:  cfg.PollingMaxInterval,
	}, &http.Client{Timeout: 3 * time.Second}, store, logger)

	pl := pipeline.New(pipeline.Deps{
		Bookmakers:      bookmakers,
		Poller:          poller,
		Parser:          feed.NewParser(cfg.SharpBookmakers),
		Chain:           validation.NewChain(),
		Store:           store,
		Calculators:     calculators.NewRegistry(),
		Builder:         message.NewBuilder(cfg.HTMLCacheTTL, cfg.HTMLCacheMaxEntries),
		Dispatcher:      dispatcher,
		Health:          healthSrv,
		Stats:           stats,
		ConcurrentPicks: cfg.ConcurrentPicks,
		MinOdds:         cfg.MinOdds,
		MaxOdds:         cfg.MaxOdds,
		MinProfit:       cfg.MinProfit,
		MaxProfit:       cfg.MaxProfit,
		Log:             logger,
	})

	go func() {
		if err := healthSrv.Run(ctx); err != nil {
			logger.Error("health server stopped with error", "error", err)
		}
	}()

	logger.Info("surepulse: entering polling loop")
	if err := pl.Run(ctx); err != nil {
		logger.Error("pipeline stopped with error", "error", err)
		log.Fatalf("surepulse: pipeline failed: %v", err)
	}

	logger.Info("surepulse stopped")
}

func buildBookmakerRegistry(cfg *config.Config) (*entities.Registry, error) {
	var bookmakers []entities.Bookmaker
	sharpSet := make(map[string]struct{}, len(cfg.SharpBookmakers))
	for _, id := range cfg.SharpBookmakers {
		sharpSet[id] = struct{}{}
	}

	for _, id := range cfg.APIBookmakers {
		role := entities.RoleSoft
		if _, isSharp := sharpSet[id]; isSharp {
			role = entities.RoleSharp
		}
		b, err := entities.NewBookmaker(id, role, cfg.BookmakerChannels[id])
		if err != nil {
			return nil, err
		}
		bookmakers = append(bookmakers, b)
	}
	return entities.NewRegistry(bookmakers)
}

func buildBots(cfg *config.Config) ([]*dispatch.Bot, error) {
	bots := make([]*dispatch.Bot, 0, len(cfg.BotTokens))
	for i, token := range cfg.BotTokens {
		sender, err := dispatch.NewTelegramSender(token)
		if err != nil {
			return nil, fmt.Errorf("building bot %d: %w", i, err)
		}
		bots = append(bots, dispatch.NewBot(fmt.Sprintf("bot-%d", i+1), sender, 30))
	}
	return bots, nil
}

// healthEventSink forwards logged warnings/errors onto the health
// server's /live feed, so an operator watching it sees log noise
// alongside delivery decisions without a separate log tail.
type healthEventSink struct {
	srv *health.Server
}

func (s healthEventSink) Emit(level, message string) {
	s.srv.Notify(health.DeliveryEvent{RecordID: "log", Outcome: level + ": " + message})
}
