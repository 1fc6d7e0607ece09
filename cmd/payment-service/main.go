package main

import (
	"context"
	"encoding/json"
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
	"github.com/shopmesh/services/internal/payment"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[payment-service] postgres: %v", err)
	}
	defer pool.Close()

	pub := events.NewKafkaPublisher(cfg.KafkaBrokers)
	defer pub.Close()

	svc := payment.NewService(payment.NewPGRepo(pool), pub, payment.NewAutoApproveGateway())
	m := metrics.NewServerMetrics("payment_service")

	// Auto-charge every freshly created order.
	consumer := events.NewConsumer(cfg.KafkaBrokers, "payment-service-group")
	go func() {
		err := consumer.Run(ctx, []string{events.TopicOrderCreated}, func(ctx context.Context, topic string, value []byte) error {
			var evt events.OrderCreated
			if err := json.Unmarshal(value, &evt); err != nil {
				return err
			}
			_, err := svc.HandleOrderCreated(ctx, evt)
			return err
		})
		if err != nil {
			log.Printf("[payment-service] consumer stopped: %v", err)
		}
	}()

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/payments", listPaymentsHandler(svc))
	r.GET("/payments/:id", getPaymentHandler(svc))
	r.POST("/payments/process", processPaymentHandler(svc))
	r.POST("/payments/:id/refund", refundPaymentHandler(svc))

	srv := &http.Server{Addr: cfg.PaymentSvcAddr, Handler: r}
	go func() {
		log.Printf("[payment-service] listening on %s", cfg.PaymentSvcAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[payment-service] serve: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[payment-service] shutdown: %v", err)
	}
}
