package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    interface{}
		wantErr bool
	}{
		{"empty document", map[string]interface{}{}, false},
		{"full document", map[string]interface{}{
			"version":   "1.0",
			"reporter":  map[string]interface{}{"initial": map[string]interface{}{"requests": 0}, "buffer": 4},
			"ensure":    map[string]interface{}{"max_retries": 5, "retry_delay": "250ms"},
			"telemetry": map[string]interface{}{"enabled": true, "interval": "1m30s"},
		}, false},
		{"negative buffer", map[string]interface{}{"reporter": map[string]interface{}{"buffer": -1}}, true},
		{"bad delay", map[string]interface{}{"ensure": map[string]interface{}{"retry_delay": "soon"}}, true},
		{"unknown section field", map[string]interface{}{"ensure": map[string]interface{}{"attempts": 2}}, true},
		{"wrong type", map[string]interface{}{"telemetry": map[string]interface{}{"enabled": "yes"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
