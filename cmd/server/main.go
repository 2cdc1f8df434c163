package main

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cardczar/cah-table-backend/internal/auth"
	"github.com/cardczar/cah-table-backend/internal/config"
	"github.com/cardczar/cah-table-backend/internal/deck"
	"github.com/cardczar/cah-table-backend/internal/filter"
	"github.com/cardczar/cah-table-backend/internal/game"
	"github.com/cardczar/cah-table-backend/internal/httpapi"
	"github.com/cardczar/cah-table-backend/internal/room"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var log *zap.Logger
	var err error
	if cfg.IsDevelopment() {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	prompts := deck.LoadFile(cfg.Cards.PromptFile, deck.DefaultPrompts, log)
	responses := deck.LoadFile(cfg.Cards.ResponseFile, deck.DefaultResponses, log)
	d := deck.New(prompts, responses, cfg.Game.BlankChance, rng)

	f := filter.New()
	session := game.NewSession(game.Rules{
		HandSize:      cfg.Game.HandSize,
		MinPlayers:    cfg.Game.MinPlayers,
		WinThreshold:  cfg.Game.WinThreshold,
		NameMax:       cfg.Game.NameMax,
		CustomTextMax: cfg.Game.CustomTextMax,
		RequireReady:  cfg.Game.RequireReady,
	}, d, f, rng)

	gate, err := auth.NewGate(cfg.Server.AdminPass)
	if err != nil {
		log.Fatal("admin gate init failed", zap.Error(err))
	}

	ctx := context.Background()
	rm := room.NewRoom(ctx, session, gate, f, cfg.Timing, cfg.Game.ChatMax, rng, log)

	handler := httpapi.SetupRoutes(rm, log)

	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{Addr: cfg.GetAddr(), Handler: handler}

	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.GetAddr()))
		return srv.ListenAndServe()
	})
	// Keep-alive log tick so hosting platforms see activity during play.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Timing.KeepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				log.Info("keep-alive ping")
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
