package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"coffee-order/internal/middleware"
	"coffee-order/internal/order"
	"coffee-order/internal/session"
	"coffee-order/internal/webhook"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		slog.Error("panic recovered", "route", route, "panic", r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	slog.Warn("returning error", "route", route, "status", status, "message", message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		slog.Warn("request validation failed", "route", route, "details", details)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}
	respondWithError(c, http.StatusBadRequest, route, "invalid request")
}

func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}

// sessionForm resolves the caller's form. It aborts the request and returns
// false when the session store cannot be reached.
func sessionForm(c *gin.Context, reg *session.Registry, route string) (string, *order.Form, bool) {
	sid := middleware.SessionID(c)
	form, err := reg.Form(c.Request.Context(), sid)
	if err != nil {
		slog.Error("session load failed", "route", route, "error", err)
		respondWithError(c, http.StatusServiceUnavailable, route, "session store unavailable")
		return "", nil, false
	}
	return sid, form, true
}

// persist mirrors the form into the session store. The in-memory form
// stays authoritative, so a failed write is only logged.
func persist(ctx context.Context, reg *session.Registry, sid, route string) {
	if err := reg.Save(context.WithoutCancel(ctx), sid); err != nil {
		slog.Warn("session save failed", "route", route, "error", err)
	}
}

// refresh keeps the stored snapshot of a read-only session from expiring.
func refresh(ctx context.Context, reg *session.Registry, sid, route string) {
	if err := reg.Refresh(context.WithoutCancel(ctx), sid); err != nil {
		slog.Warn("session refresh failed", "route", route, "error", err)
	}
}

// submission is the user-facing result of a submit attempt.
type submission struct {
	status int
	notice session.Notice
	field  string
}

// submit runs the submission flow detached from the request's cancellation,
// so a closed browser tab does not abort a send that is already under way.
func submit(c *gin.Context, route string, form *order.Form, sender order.Sender) submission {
	ctx := context.WithoutCancel(c.Request.Context())
	err := form.Submit(ctx, sender)

	var verr order.ValidationError
	var transportErr webhook.TransportError
	var rejection webhook.RejectionError

	switch {
	case err == nil:
		slog.Info("order submitted", "route", route, "session", middleware.SessionID(c))
		return submission{status: http.StatusOK, notice: session.Notice{Kind: session.NoticeSuccess, Message: order.MsgSubmitted}}
	case errors.As(err, &verr):
		return submission{status: http.StatusUnprocessableEntity, notice: session.Notice{Kind: session.NoticeError, Message: verr.Message}, field: verr.Field}
	case errors.Is(err, order.ErrSubmissionInProgress):
		return submission{status: http.StatusConflict, notice: session.Notice{Kind: session.NoticeError, Message: order.MsgAlreadySending}}
	case errors.As(err, &transportErr):
		slog.Error("order webhook unreachable", "route", route, "error", transportErr.Err)
	case errors.As(err, &rejection):
		slog.Error("order webhook rejected order", "route", route, "status", rejection.StatusCode)
	default:
		slog.Error("order submission failed", "route", route, "error", err)
	}
	return submission{status: http.StatusBadGateway, notice: session.Notice{Kind: session.NoticeError, Message: order.MsgSubmitFailed}}
}
