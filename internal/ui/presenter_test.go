package ui

import (
	"io"
	"testing"

	"github.com/bamsammich/offload/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPresenterSelection(t *testing.T) {
	assert.IsType(t, quietPresenter{}, NewPresenter(Config{Quiet: true, IsTTY: true}))
	assert.IsType(t, &plainPresenter{}, NewPresenter(Config{Writer: io.Discard, ErrWriter: io.Discard}))
	assert.IsType(t, &livePresenter{}, NewPresenter(Config{ErrWriter: io.Discard, IsTTY: true}))
}

func TestQuietPresenterDrains(t *testing.T) {
	p := NewPresenter(Config{Quiet: true})
	events := make(chan event.Event, 3)
	events <- event.Event{Type: event.ScanStarted}
	events <- event.Event{Type: event.ScanComplete}
	close(events)

	require.NoError(t, p.Run(events))
	assert.Empty(t, events)
	assert.Empty(t, p.Summary())
}

func TestErrText(t *testing.T) {
	assert.Equal(t, assert.AnError.Error(), errText(event.Event{Error: assert.AnError, Message: "m"}))
	assert.Equal(t, "m", errText(event.Event{Message: "m"}))
	assert.Equal(t, "error", errText(event.Event{}))
}
