package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/services/internal/events"
	"github.com/shopmesh/services/internal/httpx"
	"github.com/shopmesh/services/internal/user"
)

// registerHandler godoc
// @Summary Register a new user
// @Tags users
// @Param request body user.RegisterRequest true "User to register"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 409 {object} httpx.Envelope
// @Router /users [post]
func registerHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		u, err := svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			var pubErr *events.PublishError
			switch {
			case errors.Is(err, user.ErrMissingFields):
				httpx.Fail(c, http.StatusBadRequest, err.Error())
			case errors.Is(err, user.ErrAlreadyExist):
				httpx.Fail(c, http.StatusConflict, "Username or email already in use")
			case errors.As(err, &pubErr):
				c.JSON(http.StatusBadGateway, httpx.Envelope{Success: false, Error: err.Error(), Data: u})
			default:
				httpx.Fail(c, http.StatusInternalServerError, err.Error())
			}
			return
		}
		httpx.OK(c, http.StatusCreated, "User registered successfully", u)
	}
}

// getUserHandler godoc
// @Summary Get user by ID
// @Tags users
// @Param id path string true "User ID"
// @Success 200 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /users/{id} [get]
func getUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "User not found")
				return
			}
			httpx.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.OK(c, http.StatusOK, "", u)
	}
}

// updateUserHandler godoc
// @Summary Update user
// @Tags users
// @Param id path string true "User ID"
// @Param request body user.UpdateRequest true "Fields to update"
// @Success 200 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /users/{id} [put]
func updateUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		u, err := svc.Update(c.Request.Context(), c.Param("id"), req.Username, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrNotFound):
				httpx.Fail(c, http.StatusNotFound, "User not found")
			case errors.Is(err, user.ErrAlreadyExist):
				httpx.Fail(c, http.StatusConflict, "Username or email already in use")
			default:
				httpx.Fail(c, http.StatusInternalServerError, err.Error())
			}
			return
		}
		httpx.OK(c, http.StatusOK, "User updated successfully", u)
	}
}

// deleteUserHandler godoc
// @Summary Delete user
// @Tags users
// @Param id path string true "User ID"
// @Success 200 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /users/{id} [delete]
func deleteUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "User not found")
				return
			}
			httpx.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.OK(c, http.StatusOK, "User deleted successfully", nil)
	}
}

// authenticateHandler godoc
// @Summary Verify user credentials
// @Tags users
// @Param request body user.AuthenticateRequest true "Credentials"
// @Success 200 {object} httpx.Envelope
// @Failure 401 {object} httpx.Envelope
// @Router /users/authenticate [post]
func authenticateHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.AuthenticateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		id, ok, err := svc.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			httpx.Fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		httpx.OK(c, http.StatusOK, "Authenticated", gin.H{"userId": id})
	}
}
