package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPMailer(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		m, err := NewSMTPMailer("smtp.gmail.com", "587", "otp@nidhi.app", "app-password")
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	cases := []struct {
		name                         string
		host, port, sender, password string
	}{
		{"missing host", "", "587", "otp@nidhi.app", "pw"},
		{"missing port", "smtp.gmail.com", "", "otp@nidhi.app", "pw"},
		{"missing sender", "smtp.gmail.com", "587", "", "pw"},
		{"missing password", "smtp.gmail.com", "587", "otp@nidhi.app", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSMTPMailer(tc.host, tc.port, tc.sender, tc.password)
			assert.Error(t, err)
		})
	}
}

func TestSMTPMailer_SendValidation(t *testing.T) {
	m, err := NewSMTPMailer("smtp.gmail.com", "587", "otp@nidhi.app", "pw")
	require.NoError(t, err)

	assert.Error(t, m.Send("", "subject", "body"))
	assert.Error(t, m.Send("a@b.com", "", "body"))
}
