package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		mode     string
		approved bool
		wantErr  bool
	}{
		{"", true, false},
		{ModeApprove, true, false},
		{ModeDecline, false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			auth, err := New(tt.mode)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			ok, err := auth.Authorize(ctx, nil)
			assert.NoError(t, err)
			assert.Equal(t, tt.approved, ok)
		})
	}
}
