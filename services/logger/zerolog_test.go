package logsvc

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gce/core/user"
)

func TestZeroLogger(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *ZeroLogger)
		level string
		want  map[string]interface{}
	}{
		{
			name:  "plain",
			log:   func(l *ZeroLogger) { l.Info("started") },
			level: "info",
			want:  map[string]interface{}{"message": "started"},
		},
		{
			name:  "error and user",
			log:   func(l *ZeroLogger) { l.Warn("audit: dropped", errors.New("quota"), user.User{Username: "admin"}) },
			level: "warn",
			want:  map[string]interface{}{"message": "audit: dropped", "error": "quota", "user": "admin"},
		},
		{
			name:  "fields",
			log:   func(l *ZeroLogger) { l.Error("export", map[string]interface{}{"format": "xlsx"}) },
			level: "error",
			want:  map[string]interface{}{"message": "export", "format": "xlsx"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewJSONLogger(&buf))

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
			assert.Equal(t, tt.level, got["level"])
			for k, v := range tt.want {
				assert.Equal(t, v, got[k], k)
			}
		})
	}
}

func TestRollbarLogger_prepare(t *testing.T) {
	l := RollbarLogger{}
	err := errors.New("boom")
	args := l.prepare("msg", []interface{}{err, user.User{Username: "admin"}, user.User{Username: "other"}})
	assert.Equal(t, []interface{}{"msg", err}, args)
}
