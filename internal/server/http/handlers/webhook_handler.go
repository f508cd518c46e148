package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/meridianshop/paygate/internal/domain/errors"
	"github.com/meridianshop/paygate/internal/server/http/dto"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// WebhookHandler accepts payment-provider notifications.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Handle handles POST /api/webhooks/:provider.
func (h *WebhookHandler) Handle(c *gin.Context) {
	provider := c.Param("provider")

	header, err := h.facade.SignatureHeader(provider)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.WebhookError{Error: "unknown provider"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.WebhookError{Error: "unreadable body"})
		return
	}

	_, err = h.facade.HandleWebhook(c.Request.Context(), provider, body, c.GetHeader(header))
	if err == nil {
		c.JSON(http.StatusOK, dto.WebhookAck{Received: true})
		return
	}

	switch {
	case errors.Is(err, domainErrors.ErrUnsupportedEvent):
		// acknowledged and dropped: providers must not retry events we ignore
		c.JSON(http.StatusOK, dto.WebhookAck{Received: true})
	case errors.Is(err, domainErrors.ErrMissingSecret), errors.Is(err, domainErrors.ErrInvalidSignature):
		c.JSON(http.StatusUnauthorized, dto.WebhookError{Error: "authentication required"})
	case errors.Is(err, domainErrors.ErrMalformedPayload):
		c.JSON(http.StatusBadRequest, dto.WebhookError{Error: "malformed payload"})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.WebhookError{Error: "order not found"})
	default:
		c.JSON(http.StatusInternalServerError, dto.WebhookError{Error: "internal error"})
	}
}
