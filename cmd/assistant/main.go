package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/ringsize-hub/internal/assistant"
	"github.com/ariefcatur/ringsize-hub/internal/config"
	"github.com/ariefcatur/ringsize-hub/internal/httpx"
	kafkax "github.com/ariefcatur/ringsize-hub/internal/kafka"
	"github.com/ariefcatur/ringsize-hub/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	name := cfg.ServiceName + "-assistant"

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for results; stopped after the consumer has drained
	prodCtx, stopProducer := context.WithCancel(context.Background())
	defer stopProducer()
	results := kafkax.NewProducer(cfg.KafkaBrokers, assistant.TopicResult, 1024)
	results.Start(prodCtx)

	handler := &assistant.Handler{APIKey: cfg.AssistantAPIKey}
	svc := &assistant.Service{
		Handler:     handler,
		Results:     results,
		Dedup:       &redisx.Dedup{RDB: rdb, Service: name},
		ServiceName: name,
	}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AssistantGroup, assistant.TopicInvoke, cfg.AssistantWorkers)

	router := httpx.NewRouter()
	(&httpx.AssistantHandler{Handler: handler}).Register(router)
	srv := &http.Server{Addr: cfg.AssistantAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("assistant consumer started: group=%s topic=%s workers=%d",
			cfg.AssistantGroup, assistant.TopicInvoke, cfg.AssistantWorkers)
		return cons.Start(gctx, svc.HandleInvoke)
	})
	g.Go(func() error {
		log.Printf("assistant listening at %s", cfg.AssistantAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	err = g.Wait()

	results.Close()
	results.WaitClosed()
	if err != nil {
		log.Printf("assistant: %v", err)
	}
}
