package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/shopmesh/services/docs"
	"github.com/shopmesh/services/internal/config"
	"github.com/shopmesh/services/internal/events"
	"github.com/shopmesh/services/internal/httpx"
	"github.com/shopmesh/services/internal/metrics"
	"github.com/shopmesh/services/internal/order"
)

// @title ShopMesh Order Service
// @version 1.0
// @description Order lifecycle management with Kafka event fan-out.
// @BasePath /
func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[order-service] postgres: %v", err)
	}
	defer pool.Close()

	pub := events.NewKafkaPublisher(cfg.KafkaBrokers)
	defer pub.Close()

	svc := order.NewService(order.NewPGRepo(pool), pub)
	m := metrics.NewServerMetrics("order_service")

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/orders", listOrdersHandler(svc))
	r.GET("/orders/:id", getOrderHandler(svc))
	r.POST("/orders", createOrderHandler(svc))
	r.PUT("/orders/:id/status", updateOrderStatusHandler(svc))
	r.DELETE("/orders/:id", cancelOrderHandler(svc))

	log.Printf("[order-service] listening on %s", cfg.OrderSvcAddr)
	log.Fatal(r.Run(cfg.OrderSvcAddr))
}
