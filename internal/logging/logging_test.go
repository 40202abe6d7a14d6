package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":  zerolog.DebugLevel,
		"INFO":   zerolog.InfoLevel,
		" warn ": zerolog.WarnLevel,
		"error":  zerolog.ErrorLevel,
		"trace":  zerolog.TraceLevel,
		"bogus":  zerolog.InfoLevel,
		"":       zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info().Msg("Session: hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("component", "localizer").Msg("Session: shown")
	assert.Contains(t, buf.String(), "Session: shown")
	assert.Contains(t, buf.String(), "localizer")
}

func TestSampled_DropsBurst(t *testing.T) {
	var buf bytes.Buffer
	log := Sampled(zerolog.New(&buf))

	for i := 0; i < 20; i++ {
		log.Info().Msg("frame")
	}
	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Less(t, lines, 20)
	assert.GreaterOrEqual(t, lines, 5)
}
