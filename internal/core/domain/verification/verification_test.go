package verification

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsValidAt(t *testing.T) {
	expiresAt := time.Date(2020, 1, 1, 15, 0, 0, 0, time.UTC)
	v := Verification{ExpiresAt: expiresAt}

	cases := []struct {
		id       string
		now      time.Time
		expected bool
	}{
		{id: "long before", now: expiresAt.Add(-time.Hour), expected: true},
		{id: "one second before", now: expiresAt.Add(-time.Second), expected: true},
		{id: "exactly at expiry", now: expiresAt, expected: false},
		{id: "one second after", now: expiresAt.Add(time.Second), expected: false},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			require.Equal(t, testcase.expected, v.IsValidAt(testcase.now))
		})
	}
}

func TestTokenIsMaskedWhenFormatted(t *testing.T) {
	token := Token("secret-token-value")
	require.Equal(t, "***", fmt.Sprintf("%v", token))
	require.Equal(t, "secret-token-value", string(token))
}
