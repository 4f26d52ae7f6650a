package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"seconds", 1500 * time.Millisecond, "1.50s"},
		{"minutes", 2*time.Minute + 3*time.Second, "2m3.00s"},
		{"hours", time.Hour + 5*time.Minute + 250*time.Millisecond, "1h5m0.25s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatUptime(tt.d))
		})
	}
}
