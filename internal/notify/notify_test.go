package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vouch/internal/notify"
)

func TestDeriveNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"amaya.fernando@example.org", "Amaya Fernando"},
		{"k_jayasuriya@example.org", "K Jayasuriya"},
		{"nimal-de-silva@example.org", "Nimal De Silva"},
		{"single@example.org", "Single"},
		{"no-at-sign", "no-at-sign"},
		{"@example.org", "@example.org"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, notify.DeriveNameFromEmail(tt.email), tt.email)
	}
}
