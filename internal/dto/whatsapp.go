package dto

// WhatsAppWebhookPayload is the subset of the WhatsApp Cloud API webhook
// body the service reads.
type WhatsAppWebhookPayload struct {
	Object string          `json:"object"`
	Entry  []WhatsAppEntry `json:"entry"`
}

type WhatsAppEntry struct {
	ID      string           `json:"id"`
	Changes []WhatsAppChange `json:"changes"`
}

type WhatsAppChange struct {
	Field string        `json:"field"`
	Value WhatsAppValue `json:"value"`
}

type WhatsAppValue struct {
	Contacts []WhatsAppContact `json:"contacts"`
	Messages []WhatsAppMessage `json:"messages"`
}

type WhatsAppContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type WhatsAppMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
}

// WhatsAppInboundMessage is the first text message of a webhook delivery.
type WhatsAppInboundMessage struct {
	MessageID   string
	From        string
	ContactName string
	Text        string
}

// FirstTextMessage extracts the first text message of the payload.
func (p WhatsAppWebhookPayload) FirstTextMessage() (WhatsAppInboundMessage, bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return WhatsAppInboundMessage{}, false
	}
	value := p.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return WhatsAppInboundMessage{}, false
	}
	msg := value.Messages[0]
	if msg.Text == nil || msg.Text.Body == "" {
		return WhatsAppInboundMessage{}, false
	}
	inbound := WhatsAppInboundMessage{
		MessageID: msg.ID,
		From:      msg.From,
		Text:      msg.Text.Body,
	}
	if len(value.Contacts) > 0 {
		inbound.ContactName = value.Contacts[0].Profile.Name
	}
	return inbound, true
}
