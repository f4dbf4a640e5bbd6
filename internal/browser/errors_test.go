package browser

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBrowserClosed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped cancel", fmt.Errorf("run failed: %w", context.Canceled), true},
		{"websocket close", fmt.Errorf("websocket: close 1006 (abnormal closure)"), true},
		{"target closed", fmt.Errorf("Target Closed"), true},
		{"ordinary error", fmt.Errorf("element not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBrowserClosed(tt.err))
		})
	}
}
