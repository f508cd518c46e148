package dto

// WebhookAck is the acknowledgement returned to payment providers. The same
// body is sent for newly processed and already-processed deliveries.
type WebhookAck struct {
	Received bool `json:"received"`
}

// WebhookError describes a rejected delivery.
type WebhookError struct {
	Error string `json:"error"`
}
