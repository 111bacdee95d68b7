package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"voiceorder/agent/internal/api"
	"voiceorder/agent/internal/clientws"
	"voiceorder/agent/internal/config"
	"voiceorder/agent/internal/health"
	"voiceorder/agent/internal/intent"
	"voiceorder/agent/internal/llm"
	"voiceorder/agent/internal/logging"
	"voiceorder/agent/internal/menu"
	"voiceorder/agent/internal/orchestrator"
	"voiceorder/agent/internal/tickets"
)

func main() {
	// Load .env file if present (ignored if missing)
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.Server.LogLevel, cfg.Server.LogFile)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	cat, err := menu.LoadFile(cfg.Agent.MenuFile)
	if err != nil {
		log.Error("load menu", "err", err, "file", cfg.Agent.MenuFile)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, err := tickets.Open(ctx, cfg)
	if err != nil {
		log.Error("open ticket backend", "err", err, "backend", cfg.Tickets.Backend)
		os.Exit(1)
	}
	defer sink.Close()

	model := llm.NewClient(llm.Options{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})

	reg := clientws.NewRegistry()
	coord := orchestrator.New(orchestrator.Deps{
		Catalog:  cat,
		Resolver: intent.NewResolver(model, log),
		Model:    model,
		Out:      reg,
		Tickets:  sink,
		Options: orchestrator.Options{
			DefaultPrompt: cfg.Agent.SystemPrompt,
			Greeting:      cfg.Agent.Greeting,
		},
		Log: log,
	})

	wss := clientws.NewServer(coord, reg, log)
	wss.TokenSecret = cfg.Kiosk.TokenSecret
	wss.TokenSkewSecs = cfg.Kiosk.TokenSkewSecs
	wss.OriginPatterns = cfg.Server.AllowedOrigins

	checkers := []health.Checker{
		health.Pinger("llm", model),
		health.Pinger("tickets", sink),
	}
	lister, _ := sink.(tickets.Lister)
	h := api.NewHandlers(cat, lister, checkers, log)

	if addr := cfg.Server.GRPCHealthAddr; addr != "" {
		gs := health.NewGRPCServer()
		l, err := net.Listen("tcp", addr)
		if err != nil {
			log.Error("grpc health listen", "err", err, "addr", addr)
			os.Exit(1)
		}
		go gs.Watch(ctx, 15*time.Second, 3*time.Second, log, checkers...)
		go func() {
			log.Info("grpc health listening", "addr", addr)
			if err := gs.Server.Serve(l); err != nil {
				log.Error("grpc health serve", "err", err)
			}
		}()
		defer gs.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewRouter(h, wss.HandleWS),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received; stopping server")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Info("server starting", "addr", srv.Addr, "model", cfg.LLM.Model, "menu_items", cat.Len(), "tickets", cfg.Tickets.Backend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
}
