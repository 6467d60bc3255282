package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "json", want: FormatJSON},
		{in: "JSON", want: FormatJSON},
		{in: "yaml", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestSetupHandlerTextLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := SetupHandlerText("warn", &buf)
	logger := slog.New(h)

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestSetupHandlerJSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := SetupHandlerJSON("debug", &buf)
	logger := slog.New(h)

	logger.Debug("frame complete", "frame", 12)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "frame complete", entry["msg"])
	assert.EqualValues(t, 12, entry["frame"])
}

func TestSetupHandlerDispatch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h, err := SetupHandler(FormatJSON, "info", &buf)
	require.NoError(t, err)
	slog.New(h).Info("ok")
	assert.Contains(t, buf.String(), `"msg":"ok"`)

	_, err = SetupHandler(Format("yaml"), "info", &buf)
	assert.Error(t, err)
}
