package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/services/internal/events"
	"github.com/shopmesh/services/internal/httpx"
	"github.com/shopmesh/services/internal/order"
)

// listOrdersHandler godoc
// @Summary List orders
// @Tags orders
// @Param userId query string false "Filter by owning user"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} httpx.Envelope
// @Router /orders [get]
func listOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		f := order.Filter{UserID: c.Query("userId"), Page: page, Limit: limit}.Normalize()

		orders, total, err := svc.List(c.Request.Context(), f)
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if orders == nil {
			orders = []order.Order{}
		}
		httpx.OKPage(c, http.StatusOK, orders, httpx.NewPagination(f.Page, f.Limit, total))
	}
}

// getOrderHandler godoc
// @Summary Get order by ID
// @Tags orders
// @Param id path string true "Order ID"
// @Success 200 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /orders/{id} [get]
func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "Order not found")
				return
			}
			httpx.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.OK(c, http.StatusOK, "", o)
	}
}

// createOrderHandler godoc
// @Summary Create a new order
// @Tags orders
// @Param request body order.CreateOrderRequest true "Order to create"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Router /orders [post]
func createOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		items := make([]order.CreateItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, order.CreateItem{
				ProductName: it.ProductName,
				ProductSKU:  it.ProductSKU,
				Quantity:    it.Quantity,
				Price:       it.Price,
			})
		}

		o, err := svc.Create(c.Request.Context(), req.UserID, items, req.Notes)
		if err != nil {
			var pubErr *events.PublishError
			switch {
			case errors.Is(err, order.ErrNoItems), errors.Is(err, order.ErrInvalidItem):
				httpx.Fail(c, http.StatusBadRequest, err.Error())
			case errors.As(err, &pubErr):
				// The order is committed; only the event was lost.
				c.JSON(http.StatusBadGateway, httpx.Envelope{Success: false, Error: err.Error(), Data: o})
			default:
				httpx.Fail(c, http.StatusInternalServerError, err.Error())
			}
			return
		}
		httpx.OK(c, http.StatusCreated, "Order created successfully", o)
	}
}

// updateOrderStatusHandler godoc
// @Summary Update order status
// @Tags orders
// @Param id path string true "Order ID"
// @Param request body order.UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /orders/{id}/status [put]
func updateOrderStatusHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		next := order.Status(req.Status)
		if !next.Valid() {
			httpx.Fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid order status: %s", req.Status))
			return
		}

		o, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), next, req.Reason)
		if err != nil {
			var trErr *order.TransitionError
			var pubErr *events.PublishError
			switch {
			case errors.Is(err, order.ErrNotFound):
				httpx.Fail(c, http.StatusNotFound, "Order not found")
			case errors.As(err, &trErr):
				httpx.Fail(c, http.StatusBadRequest, fmt.Sprintf("Cannot transition from %s to %s", trErr.From, trErr.To))
			case errors.As(err, &pubErr):
				c.JSON(http.StatusBadGateway, httpx.Envelope{Success: false, Error: err.Error(), Data: o})
			default:
				httpx.Fail(c, http.StatusInternalServerError, err.Error())
			}
			return
		}
		httpx.OK(c, http.StatusOK, "Order status updated successfully", o)
	}
}

// cancelOrderHandler godoc
// @Summary Cancel order
// @Tags orders
// @Param id path string true "Order ID"
// @Success 200 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /orders/{id} [delete]
func cancelOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.Cancel(c.Request.Context(), c.Param("id"))
		if err != nil {
			var pubErr *events.PublishError
			switch {
			case errors.Is(err, order.ErrNotFound):
				httpx.Fail(c, http.StatusNotFound, "Order not found")
			case errors.Is(err, order.ErrAlreadyCompleted):
				httpx.Fail(c, http.StatusBadRequest, "Cannot cancel a completed order")
			case errors.Is(err, order.ErrAlreadyCancelled):
				httpx.Fail(c, http.StatusBadRequest, "Order is already cancelled")
			case errors.As(err, &pubErr):
				c.JSON(http.StatusBadGateway, httpx.Envelope{Success: false, Error: err.Error(), Data: o})
			default:
				httpx.Fail(c, http.StatusInternalServerError, err.Error())
			}
			return
		}
		httpx.OK(c, http.StatusOK, "Order cancelled successfully", o)
	}
}
