package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopmesh/services/internal/config"
	"github.com/shopmesh/services/internal/events"
	"github.com/shopmesh/services/internal/httpx"
	"github.com/shopmesh/services/internal/metrics"
	"github.com/shopmesh/services/internal/notification"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[notification-service] postgres: %v", err)
	}
	defer pool.Close()

	svc := notification.NewService(notification.NewPGRepo(pool))
	m := metrics.NewServerMetrics("notification_service")

	consumer := events.NewConsumer(cfg.KafkaBrokers, "notification-service-group")
	topics := []string{events.TopicUserRegistered, events.TopicOrderCreated, events.TopicPaymentProcessed}
	go func() {
		err := consumer.Run(ctx, topics, func(ctx context.Context, topic string, value []byte) error {
			return dispatch(ctx, svc, topic, value)
		})
		if err != nil {
			log.Printf("[notification-service] consumer stopped: %v", err)
		}
	}()

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/notifications", listNotificationsHandler(svc))
	r.PUT("/notifications/:id/read", markReadHandler(svc))

	srv := &http.Server{Addr: cfg.NotificationSvcAddr, Handler: r}
	go func() {
		log.Printf("[notification-service] listening on %s", cfg.NotificationSvcAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[notification-service] serve: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[notification-service] shutdown: %v", err)
	}
}

func dispatch(ctx context.Context, svc *notification.Service, topic string, value []byte) error {
	switch topic {
	case events.TopicUserRegistered:
		var evt events.UserRegistered
		if err := json.Unmarshal(value, &evt); err != nil {
			return err
		}
		return svc.HandleUserRegistered(ctx, evt)
	case events.TopicOrderCreated:
		var evt events.OrderCreated
		if err := json.Unmarshal(value, &evt); err != nil {
			return err
		}
		return svc.HandleOrderCreated(ctx, evt)
	case events.TopicPaymentProcessed:
		var evt events.PaymentProcessed
		if err := json.Unmarshal(value, &evt); err != nil {
			return err
		}
		return svc.HandlePaymentProcessed(ctx, evt)
	default:
		return fmt.Errorf("unexpected topic %s", topic)
	}
}
