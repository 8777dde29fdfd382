package main

import (
	"context"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/calculator"
	"github.com/LightnXd/Zus-Chatbot-Backend/agent/llmgraph"
	"github.com/LightnXd/Zus-Chatbot-Backend/agent/orchestrator"
	"github.com/LightnXd/Zus-Chatbot-Backend/agent/outletgate"
	"github.com/LightnXd/Zus-Chatbot-Backend/agent/planner"
	"github.com/LightnXd/Zus-Chatbot-Backend/agent/productindex"
	"github.com/LightnXd/Zus-Chatbot-Backend/agent/prompt"
	"github.com/LightnXd/Zus-Chatbot-Backend/agent/session"
	"github.com/LightnXd/Zus-Chatbot-Backend/boundary"
	configx "github.com/LightnXd/Zus-Chatbot-Backend/pkg/config"
	logx "github.com/LightnXd/Zus-Chatbot-Backend/pkg/logger"
	openrouterx "github.com/LightnXd/Zus-Chatbot-Backend/pkg/openrouter"
)

// AppConfig holds the top-level, unprefixed settings the service reads
// directly, using the env var names spec.md §6 documents literally.
type AppConfig struct {
	CatalogPath   string        `envconfig:"PRODUCT_CATALOG_PATH" default:"catalog.jsonl"`
	SQLURL        string        `envconfig:"SQL_URL" required:"true"`
	SQLKey        string        `envconfig:"SQL_KEY"`
	SessionWindow int           `envconfig:"SESSION_WINDOW" default:"3"`
	SessionTTLMin int           `envconfig:"SESSION_TTL_MIN" default:"60"`
	EvictionEvery time.Duration `envconfig:"EVICTION_EVERY" default:"1m"`
}

// outletDSN folds SQL_KEY into SQL_URL as the connection password, so the
// two spec-documented variables become the single DSN bun's pgdriver wants.
func outletDSN(rawURL, key string) string {
	if key == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.User = url.UserPassword(u.User.Username(), key)
	return u.String()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logx.Init(logx.Config{PrettyFormat: true})

	appCfg := configx.MustNew[AppConfig]("")
	boundaryCfg := configx.MustNew[boundary.Config]("")
	llmCfg := configx.MustNew[openrouterx.Config]("LLM")

	llmModel, err := llmCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("main: failed to build language model client")
	}

	prompts := prompt.LoadPromptSet()

	sqlGraph, err := llmgraph.CompileTextGraph(ctx, llmModel, prompts.OutletSQL, "outlet-sql")
	if err != nil {
		log.Fatal().Err(err).Msg("main: failed to compile outlet SQL graph")
	}
	answerGraph, err := llmgraph.CompileTextGraph(ctx, llmModel, prompts.FinalAnswer, "final-answer")
	if err != nil {
		log.Fatal().Err(err).Msg("main: failed to compile final-answer graph")
	}
	ratePerSecond := float64(llmCfg.RatePerMinute) / 60
	sqlLLM := llmgraph.NewRateLimited(sqlGraph, ratePerSecond, 5)
	answerLLM := llmgraph.NewRateLimited(answerGraph, ratePerSecond, 5)

	catalog, err := productindex.LoadCatalog(appCfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("main: failed to load product catalog")
	}
	index := productindex.New(productindex.NewTFIDFEmbedder())
	if err := index.Build(ctx, catalog); err != nil {
		log.Fatal().Err(err).Msg("main: failed to build product index")
	}
	log.Info().Int("products", index.Len()).Msg("main: product index built")

	outletStore := outletgate.NewPostgresStore(outletDSN(appCfg.SQLURL, appCfg.SQLKey))
	defer outletStore.Close()
	gate := outletgate.New(sqlLLM, outletStore, prompts.OutletSQL, outletgate.Config{})

	sessions := session.New(session.Config{
		Window:  appCfg.SessionWindow,
		TTL:     time.Duration(appCfg.SessionTTLMin) * time.Minute,
		SoftCap: 10000,
	})
	go session.StartEvictionLoop(ctx, sessions, appCfg.EvictionEvery)

	calc := calculator.New()
	plan := planner.New()

	orch := orchestrator.New(sessions, plan, calc, index, gate, answerLLM, orchestrator.Config{
		SystemPrompt: prompts.FinalAnswer,
	})

	srv := boundary.New(*boundaryCfg, orch, index, gate, calc, sessions)

	go func() {
		<-ctx.Done()
		log.Info().Msg("main: shutdown signal received")
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("main: server shutdown failed")
		}
	}()

	log.Info().Msg("main: starting HTTP server")
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("main: server stopped")
	}
}
