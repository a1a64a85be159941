package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/swr-simulator/internal/calculation"
)

var _ calculation.Logger = (*Logger)(nil)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", "json")
	require.NoError(t, err)

	l.Debugf("hidden %d", 1)
	l.With("request_id", "abc").Infof("ran %d cycles", 124)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug is below the level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "ran 124 cycles", entry["message"])
	assert.Equal(t, "abc", entry["request_id"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "DEBUG", "console")
	require.NoError(t, err)

	l.Warnf("low cover %s", "warning")
	assert.Contains(t, buf.String(), "low cover warning")
	assert.Equal(t, zerolog.DebugLevel, l.Zerolog().GetLevel())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)
	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestFromZerolog(t *testing.T) {
	var buf bytes.Buffer
	l := FromZerolog(zerolog.New(&buf))
	l.Errorf("boom")
	assert.Contains(t, buf.String(), `"message":"boom"`)
}
