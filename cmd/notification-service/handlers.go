package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/services/internal/httpx"
	"github.com/shopmesh/services/internal/notification"
)

// listNotificationsHandler godoc
// @Summary List notifications for a user
// @Tags notifications
// @Param userId query string true "Owning user"
// @Param unreadOnly query bool false "Only unread notifications"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Router /notifications [get]
func listNotificationsHandler(svc *notification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			httpx.Fail(c, http.StatusBadRequest, "userId query parameter is required")
			return
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unreadOnly", "false"))

		f := notification.Filter{UserID: userID, UnreadOnly: unreadOnly, Page: page, Limit: limit}.Normalize()
		items, total, err := svc.List(c.Request.Context(), f)
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []notification.Notification{}
		}
		httpx.OKPage(c, http.StatusOK, items, httpx.NewPagination(f.Page, f.Limit, total))
	}
}

// markReadHandler godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 200 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /notifications/{id}/read [put]
func markReadHandler(svc *notification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.MarkAsRead(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, notification.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "Notification not found")
				return
			}
			httpx.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.OK(c, http.StatusOK, "Notification marked as read", n)
	}
}
