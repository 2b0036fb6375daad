package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ctenex/internal/api"
	"ctenex/internal/config"
	"ctenex/internal/facade"
	"ctenex/internal/journal"
	"ctenex/internal/matching"
	"ctenex/internal/metrics"
	"ctenex/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	configPath := flag.String("config", "", "path to ctenex.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	contracts, err := config.BuildContracts(cfg.Contracts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build contract universe")
	}
	contractIDs := make([]models.ContractID, len(contracts))
	for i, c := range contracts {
		contractIDs[i] = c.ID
	}

	j, closeJournal := buildJournal(cfg.Journal)
	defer closeJournal()

	m := metrics.New(prometheus.DefaultRegisterer)
	engine := matching.NewEngine(contractIDs, j, m)
	defer engine.Stop()

	f := facade.New(engine, j)
	server := api.NewServer(cfg.Server.ListenAddr, f, contracts)

	log.Info().Strs("contracts", contractIDsToStrings(contractIDs)).Str("addr", cfg.Server.ListenAddr).
		Msg("ctenex matching engine starting")

	go func() {
		if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown()

	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during http server shutdown")
	}
}

func buildJournal(cfg config.JournalConfig) (journal.Journal, func()) {
	if cfg.Driver != "postgres" {
		return journal.NewMemoryJournal(), func() {}
	}

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres journal")
	}
	pj := journal.NewPostgresJournal(pool)
	return pj, func() {
		pj.Close()
		pool.Close()
	}
}

func waitForShutdown() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutdown signal received")
}

func contractIDsToStrings(ids []models.ContractID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
