package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "debug", "json")

	logger.WithField("zip", "95814").Debug("forecast cached")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "forecast cached", entry["msg"])
	assert.Equal(t, "95814", entry["zip"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewWithOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "info", "TEXT")

	logger.Info("listening")

	assert.Contains(t, buf.String(), `msg=listening`)
}

func TestNewWithOutput_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"warn", logrus.WarnLevel},
		{"trace", logrus.TraceLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}

	for _, tt := range tests {
		logger := NewWithOutput(&bytes.Buffer{}, tt.level, "json")
		assert.Equal(t, tt.want, logger.GetLevel(), "level %q", tt.level)
	}
}
