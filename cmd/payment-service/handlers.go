package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/services/internal/events"
	"github.com/shopmesh/services/internal/httpx"
	"github.com/shopmesh/services/internal/payment"
)

// listPaymentsHandler godoc
// @Summary List payments
// @Tags payments
// @Param userId query string false "Filter by user"
// @Param orderId query string false "Filter by order"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} httpx.Envelope
// @Router /payments [get]
func listPaymentsHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		f := payment.Filter{
			UserID:  c.Query("userId"),
			OrderID: c.Query("orderId"),
			Page:    page,
			Limit:   limit,
		}.Normalize()

		payments, total, err := svc.List(c.Request.Context(), f)
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if payments == nil {
			payments = []payment.Payment{}
		}
		httpx.OKPage(c, http.StatusOK, payments, httpx.NewPagination(f.Page, f.Limit, total))
	}
}

// getPaymentHandler godoc
// @Summary Get payment by ID
// @Tags payments
// @Param id path string true "Payment ID"
// @Success 200 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /payments/{id} [get]
func getPaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, payment.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "Payment not found")
				return
			}
			httpx.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.OK(c, http.StatusOK, "", p)
	}
}

// processPaymentHandler godoc
// @Summary Process a payment
// @Tags payments
// @Param request body payment.ProcessPaymentRequest true "Charge to process"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Router /payments/process [post]
func processPaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.ProcessPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if !req.Amount.IsPositive() {
			httpx.Fail(c, http.StatusBadRequest, "Amount must be positive")
			return
		}

		p, err := svc.Process(c.Request.Context(), payment.ProcessRequest{
			OrderID:       req.OrderID,
			UserID:        req.UserID,
			Amount:        req.Amount,
			Currency:      req.Currency,
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			var pubErr *events.PublishError
			if errors.As(err, &pubErr) {
				c.JSON(http.StatusBadGateway, httpx.Envelope{Success: false, Error: err.Error(), Data: p})
				return
			}
			httpx.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.OK(c, http.StatusCreated, "Payment processed", p)
	}
}

// refundPaymentHandler godoc
// @Summary Refund a payment
// @Tags payments
// @Param id path string true "Payment ID"
// @Param request body payment.RefundPaymentRequest true "Refund details"
// @Success 200 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /payments/{id}/refund [post]
func refundPaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.RefundPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		p, err := svc.Refund(c.Request.Context(), c.Param("id"), req.Amount, req.Reason)
		if err != nil {
			var pubErr *events.PublishError
			switch {
			case errors.Is(err, payment.ErrNotFound):
				httpx.Fail(c, http.StatusNotFound, "Payment not found")
			case errors.Is(err, payment.ErrNotRefundable):
				httpx.Fail(c, http.StatusBadRequest, "Only completed payments can be refunded")
			case errors.Is(err, payment.ErrBadAmount):
				httpx.Fail(c, http.StatusBadRequest, "Refund amount must be positive and not exceed the payment amount")
			case errors.As(err, &pubErr):
				c.JSON(http.StatusBadGateway, httpx.Envelope{Success: false, Error: err.Error(), Data: p})
			default:
				httpx.Fail(c, http.StatusInternalServerError, err.Error())
			}
			return
		}
		httpx.OK(c, http.StatusOK, "Payment refunded", p)
	}
}
