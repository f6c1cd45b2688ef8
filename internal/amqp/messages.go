package amqp

import (
	"encoding/json"
	"time"
)

// BillSubmittedMessage announces a freshly submitted bill. It carries only
// the bill id; the export worker fetches the full record from storage.
type BillSubmittedMessage struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBillSubmittedMessage(id, email string) *BillSubmittedMessage {
	return &BillSubmittedMessage{
		ID:        id,
		Email:     email,
		Timestamp: time.Now(),
	}
}

func (m *BillSubmittedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BillSubmittedMessageFromJSON(data []byte) (*BillSubmittedMessage, error) {
	var msg BillSubmittedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
