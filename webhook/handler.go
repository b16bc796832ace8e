package webhook

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Limiter decides whether a client may make another request.
type Limiter interface {
	Allow(key string) bool
}

// Handler serves the payment notification endpoint. Every POST is
// acknowledged with 200 so the provider does not retry; problems are logged.
type Handler struct {
	deliverer Deliverer
	limiter   Limiter
	timeout   time.Duration
}

// NewHandler returns a Handler. A nil deliverer acknowledges payments
// without sending anything; a nil limiter allows every request.
func NewHandler(d Deliverer, l Limiter) *Handler {
	return &Handler{deliverer: d, limiter: l, timeout: time.Minute}
}

// RegisterRoutes mounts /api/webhook for every method so non-POST
// requests get a JSON 405.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Any("/api/webhook", h.Handle)
}

// Handle processes one notification.
func (h *Handler) Handle(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return c.JSON(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	}
	ok := map[string]string{"status": "success"}
	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		c.Logger().Warnf("webhook: rate limit exceeded for %s, notification dropped", c.RealIP())
		return c.JSON(http.StatusOK, ok)
	}

	p, err := DecodePayload(c.Request().Body)
	if err != nil {
		c.Logger().Warnf("webhook: %v", err)
		return c.JSON(http.StatusOK, ok)
	}
	if !p.Confirmed() {
		c.Logger().Infof("webhook: ignoring payment with status %q", p.PaymentStatus)
		return c.JSON(http.StatusOK, ok)
	}
	if err := p.Validate(); err != nil {
		c.Logger().Warnf("webhook: confirmed payment rejected: %v", err)
		return c.JSON(http.StatusOK, ok)
	}
	if h.deliverer == nil {
		c.Logger().Warnf("webhook: payment confirmed but delivery is disabled")
		return c.JSON(http.StatusOK, ok)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), h.timeout)
	defer cancel()
	if err := h.deliverer.Deliver(ctx, p.PurchaseData.Email); err != nil {
		c.Logger().Errorf("webhook: %v", err)
	}
	return c.JSON(http.StatusOK, ok)
}
