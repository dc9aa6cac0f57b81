package websocket

import (
	"encoding/json"

	"github.com/isdelr/fintrack-be/internal/models"
)

// Actions sent to clients.
const (
	ActionLowBalanceAlert = "low_balance_alert"
	ActionError           = "error"
	ActionPong            = "pong"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// LowBalancePayload is pushed after an alert email went out.
type LowBalancePayload struct {
	Salary              models.Money `json:"salary"`
	TotalSpent          models.Money `json:"totalSpent"`
	Remaining           models.Money `json:"remaining"`
	PercentageRemaining float64      `json:"percentageRemaining"`
	MessageID           string       `json:"messageId,omitempty"`
}

// NewAlertMessage encodes a low-balance notification.
func NewAlertMessage(eval models.BalanceEvaluation, messageID string) []byte {
	return encode(Message{
		Action: ActionLowBalanceAlert,
		Payload: LowBalancePayload{
			Salary:              eval.Salary,
			TotalSpent:          eval.TotalSpent,
			Remaining:           eval.Remaining,
			PercentageRemaining: eval.PercentageRemaining,
			MessageID:           messageID,
		},
	})
}

// NewErrorMessage encodes an error for the client.
func NewErrorMessage(text string) []byte {
	return encode(Message{Action: ActionError, Payload: map[string]string{"message": text}})
}

// NewPongMessage answers a client ping action.
func NewPongMessage() []byte {
	return encode(Message{Action: ActionPong})
}

func encode(msg Message) []byte {
	b, err := json.Marshal(msg)
	if err != nil {
		return []byte(`{"action":"error","payload":{"message":"encoding failed"}}`)
	}
	return b
}
