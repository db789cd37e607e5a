package manager

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay_AddAndFinish(t *testing.T) {
	var out bytes.Buffer
	d := newDisplay(&out)

	msgs := make(chan loadingMsg, 4)
	done := d.run(msgs)

	msgs <- loadingMsg{kind: msgAdd, name: "weather"}
	msgs <- loadingMsg{kind: msgAdd, name: "search"}
	msgs <- loadingMsg{kind: msgRemove, name: "weather"}
	msgs <- loadingMsg{kind: msgRemove, name: "search"}
	close(msgs)

	require.NoError(t, <-done)

	rendered := out.String()
	assert.Contains(t, rendered, "Initializing")
	assert.Contains(t, rendered, "weather")
	assert.Contains(t, rendered, "search")
	assert.Contains(t, rendered, "loaded in")
}

func TestDisplay_TerminatesOnChannelClose(t *testing.T) {
	var out bytes.Buffer
	d := newDisplay(&out)

	msgs := make(chan loadingMsg)
	done := d.run(msgs)
	close(msgs)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("display did not terminate after channel close")
	}
}

func TestDisplay_SpinnerAdvancesWhileLoading(t *testing.T) {
	var out bytes.Buffer
	d := newDisplay(&out)

	msgs := make(chan loadingMsg, 2)
	done := d.run(msgs)

	msgs <- loadingMsg{kind: msgAdd, name: "slow_server"}
	// Let a few ticks elapse so the spinner redraws.
	time.Sleep(5 * tickInterval)
	msgs <- loadingMsg{kind: msgRemove, name: "slow_server"}
	close(msgs)

	require.NoError(t, <-done)

	// At least one frame beyond the initial one was rendered.
	rendered := out.String()
	frames := 0
	for _, f := range spinnerFrames {
		frames += strings.Count(rendered, string(f))
	}
	assert.Greater(t, frames, 1)
}

func TestDisplay_RemoveForUnknownProviderIgnored(t *testing.T) {
	var out bytes.Buffer
	d := newDisplay(&out)

	msgs := make(chan loadingMsg, 1)
	done := d.run(msgs)

	msgs <- loadingMsg{kind: msgRemove, name: "never_added"}
	close(msgs)

	require.NoError(t, <-done)
	assert.NotContains(t, out.String(), "loaded in")
}
