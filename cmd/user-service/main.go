package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopmesh/services/internal/config"
	"github.com/shopmesh/services/internal/events"
	"github.com/shopmesh/services/internal/httpx"
	"github.com/shopmesh/services/internal/metrics"
	"github.com/shopmesh/services/internal/user"
)

func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[user-service] postgres: %v", err)
	}
	defer pool.Close()

	pub := events.NewKafkaPublisher(cfg.KafkaBrokers)
	defer pub.Close()

	svc := user.NewService(user.NewPGRepo(pool), pub)
	m := metrics.NewServerMetrics("user_service")

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/users", registerHandler(svc))
	r.GET("/users/:id", getUserHandler(svc))
	r.PUT("/users/:id", updateUserHandler(svc))
	r.DELETE("/users/:id", deleteUserHandler(svc))
	r.POST("/users/authenticate", authenticateHandler(svc))

	log.Printf("[user-service] listening on %s", cfg.UserSvcAddr)
	log.Fatal(r.Run(cfg.UserSvcAddr))
}
