package logio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintfFormatsLevelPrefix(t *testing.T) {
	var log Logger
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.Printf("INFO", "hello %s", "world")
	require.Equal(t, "INFO: hello world\n", buf.String())
}

func TestErrorfLatchesExitCode(t *testing.T) {
	var log Logger
	var buf bytes.Buffer
	log.SetOutput(&buf)

	require.Equal(t, 0, log.ExitCode())
	log.Errorf("boom")
	require.Equal(t, 1, log.ExitCode())
	require.Contains(t, buf.String(), "ERROR: boom")
}

func TestErrorIfNilIsNoop(t *testing.T) {
	var log Logger
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.ErrorIf(nil)
	require.Equal(t, 0, log.ExitCode())
	require.Empty(t, buf.String())
}

func TestErrorIfNonNilLatches(t *testing.T) {
	var log Logger
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.ErrorIf(errors.New("disk on fire"))
	require.Equal(t, 1, log.ExitCode())
	require.Contains(t, buf.String(), "disk on fire")
}

func TestLeveledfBindsLevel(t *testing.T) {
	var log Logger
	var buf bytes.Buffer
	log.SetOutput(&buf)

	trace := log.Leveledf("TRACE")
	trace("@%d step", 3)
	require.Equal(t, "TRACE: @3 step\n", buf.String())
}

func TestNoOutputIsSilentlyDropped(t *testing.T) {
	var log Logger
	log.Printf("INFO", "nowhere to go")
	require.Equal(t, 0, log.ExitCode())
}
