package domain

import "time"

// Event types
const (
	EventTypeTransferCompleted = "transaction.transfer_completed"
	EventTypePaymentCompleted  = "transaction.payment_completed"
	EventTypeAccountOpened     = "account.opened"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeAccount     = "account"
)

// OutboxEvent represents an event waiting to be published.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NotificationEvent is handed to the notification sink after a transaction
// commits.
type NotificationEvent struct {
	EventType       string `json:"event_type"`
	Code            string `json:"code"`
	Kind            string `json:"kind"`
	OriginAccountID string `json:"origin_account_id"`
	DestinationID   string `json:"destination_account_id,omitempty"`
	DestinationName string `json:"destination_name,omitempty"`
	Amount          string `json:"amount"`
	Commission      string `json:"commission"`
	Cashback        string `json:"cashback"`
	PointsEarned    int64  `json:"points_earned"`
	EventAt         string `json:"event_at"`
}

// NotificationFromTransaction builds the event for a completed transaction.
func NotificationFromTransaction(t *Transaction) NotificationEvent {
	eventType := EventTypeTransferCompleted
	if t.Kind == KindPayment {
		eventType = EventTypePaymentCompleted
	}
	at := t.CreatedAt
	if t.CompletedAt != nil {
		at = *t.CompletedAt
	}
	return NotificationEvent{
		EventType:       eventType,
		Code:            t.Code,
		Kind:            string(t.Kind),
		OriginAccountID: t.OriginAccountID,
		DestinationID:   t.DestinationAccountID,
		DestinationName: t.DestinationName,
		Amount:          t.Amount.StringFixed(MoneyScale),
		Commission:      t.Commission.StringFixed(MoneyScale),
		Cashback:        t.Cashback.StringFixed(MoneyScale),
		PointsEarned:    t.PointsEarned,
		EventAt:         at.UTC().Format(time.RFC3339),
	}
}

// Payload flattens the event for the outbox.
func (e NotificationEvent) Payload() map[string]any {
	return map[string]any{
		"code":                   e.Code,
		"kind":                   e.Kind,
		"origin_account_id":      e.OriginAccountID,
		"destination_account_id": e.DestinationID,
		"destination_name":       e.DestinationName,
		"amount":                 e.Amount,
		"commission":             e.Commission,
		"cashback":               e.Cashback,
		"points_earned":          e.PointsEarned,
		"event_at":               e.EventAt,
	}
}
