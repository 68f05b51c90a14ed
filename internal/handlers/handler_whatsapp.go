package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/SscSPs/couple_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type whatsAppHandler struct {
	whatsAppService portssvc.WhatsAppSvcFacade
}

// RegisterWhatsAppRoutes registers the public webhook routes.
func RegisterWhatsAppRoutes(rg gin.IRoutes, ws portssvc.WhatsAppSvcFacade) {
	h := &whatsAppHandler{whatsAppService: ws}
	rg.GET("/webhooks/whatsapp", h.verify)
	rg.POST("/webhooks/whatsapp", h.receive)
}

// verify godoc
// @Summary WhatsApp webhook verification
// @Description Echoes hub.challenge when hub.mode is subscribe and hub.verify_token matches.
// @Tags webhooks
// @Produce plain
// @Param hub.mode query string true "subscribe"
// @Param hub.verify_token query string true "Verify token"
// @Param hub.challenge query string true "Challenge"
// @Success 200 {string} string
// @Failure 403 {string} string
// @Router /webhooks/whatsapp [get]
func (h *whatsAppHandler) verify(c *gin.Context) {
	challenge, err := h.whatsAppService.VerifySubscription(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
	)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("WhatsApp verification rejected")
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	c.String(http.StatusOK, challenge)
}

// receive godoc
// @Summary WhatsApp webhook delivery
// @Description Records the transaction described by an incoming message. Always answers 200 for a readable payload so the provider does not retry.
// @Tags webhooks
// @Accept json
// @Produce plain
// @Param payload body dto.WhatsAppWebhookPayload true "Webhook payload"
// @Success 200 {string} string
// @Failure 400 {string} string
// @Router /webhooks/whatsapp [post]
func (h *whatsAppHandler) receive(c *gin.Context) {
	var payload dto.WhatsAppWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err)
		return
	}
	if err := h.whatsAppService.HandleWebhook(c.Request.Context(), payload); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("WhatsApp message not recorded", slog.String("error", err.Error()))
	}
	c.String(http.StatusOK, "OK")
}
