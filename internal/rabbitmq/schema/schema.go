package schema

import (
	"encoding/json"
	"time"
)

// PasswordResetRequested carries an issued token to the mailer. It holds a
// live token, so it must only travel over the internal broker.
type PasswordResetRequested struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (m *PasswordResetRequested) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *PasswordResetRequested) Unmarshal(data []byte) error {
	return json.Unmarshal(data, m)
}
