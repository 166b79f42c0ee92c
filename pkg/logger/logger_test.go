package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewLoggerWithWriter(buf, WARNING)

	l.Infof("hidden %d", 1)
	require.Empty(t, buf.String())

	l.Errorf("cannot mint %s", "nft")
	require.Contains(t, buf.String(), "cannot mint nft")
	require.Contains(t, buf.String(), `"level":"error"`)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DEBUG, ParseLevel("debug"))
	require.Equal(t, WARNING, ParseLevel("warn"))
	require.Equal(t, INFO, ParseLevel("whatever"))
	require.Equal(t, SILENCE, ParseLevel("silence"))
}
