package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/SscSPs/couple_finance_app/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newWhatsAppRouter(ws *MockWhatsAppService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers.RegisterWhatsAppRoutes(r, ws)
	return r
}

func TestWhatsAppVerify(t *testing.T) {
	ws := new(MockWhatsAppService)
	ws.On("VerifySubscription", "subscribe", "secret-token", "1158201444").Return("1158201444", nil).Once()
	ws.On("VerifySubscription", "subscribe", "wrong", "42").Return("", apperrors.ErrForbidden).Once()
	r := newWhatsAppRouter(ws)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=1158201444", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1158201444", w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=42", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", w.Body.String())

	ws.AssertExpectations(t)
}

func TestWhatsAppReceive_AlwaysAcknowledges(t *testing.T) {
	body := `{"object":"whatsapp_business_account","entry":[{"id":"e1","changes":[{"field":"messages","value":{"messages":[{"id":"wamid.1","from":"573001112233","type":"text","text":{"body":"pagué 50 mil de mercado"}}]}}]}]}`

	tests := []struct {
		name   string
		svcErr error
	}{
		{name: "recorded", svcErr: nil},
		{name: "service failure", svcErr: errors.New("model unavailable")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := new(MockWhatsAppService)
			ws.On("HandleWebhook", mock.Anything, mock.MatchedBy(func(p dto.WhatsAppWebhookPayload) bool {
				msg, ok := p.FirstTextMessage()
				return ok && msg.MessageID == "wamid.1" && msg.Text == "pagué 50 mil de mercado"
			})).Return(tt.svcErr).Once()
			r := newWhatsAppRouter(ws)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "OK", w.Body.String())
			ws.AssertExpectations(t)
		})
	}
}

func TestWhatsAppReceive_MalformedBody(t *testing.T) {
	ws := new(MockWhatsAppService)
	r := newWhatsAppRouter(ws)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(`{"entry":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ws.AssertNotCalled(t, "HandleWebhook")
}
