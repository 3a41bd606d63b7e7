package tx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/fee"
)

const testRecipient = "9B5XszUGdMaxCZ7uSQhPzdks5ZQSmWxrmzCSvtJ6Ns6g"

func TestBuilderConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BuilderConfig
		wantErr bool
	}{
		{"default", DefaultBuilderConfig(testRecipient), false},
		{"missing recipient", DefaultBuilderConfig(""), true},
		{"malformed recipient", DefaultBuilderConfig("not-a-key"), true},
		{"zero schedule", BuilderConfig{FeeRecipient: testRecipient, FeeSchedule: fee.Schedule{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuilderConfig_CreateDecimalsLimit(t *testing.T) {
	assert.Equal(t, 9, BuilderConfig{}.CreateDecimalsLimit())
	assert.Equal(t, 6, BuilderConfig{DecimalsLimit: 6}.CreateDecimalsLimit())
	assert.Equal(t, 9, BuilderConfig{DecimalsLimit: 18}.CreateDecimalsLimit())
}

func TestBuilderConfig_Recipient(t *testing.T) {
	cfg := DefaultBuilderConfig(testRecipient)
	assert.Equal(t, testRecipient, cfg.Recipient().ToBase58())
}
