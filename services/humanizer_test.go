package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHumanizer(mouse Mouse, rec *sleepRecorder) *Humanizer {
	return NewHumanizerWithSource(mouse, rand.New(rand.NewSource(42)), rec.sleep)
}

func TestPauseStaysWithinBand(t *testing.T) {
	rec := &sleepRecorder{}
	h := newTestHumanizer(&fakeMouse{}, rec)

	for i := 0; i < 50; i++ {
		h.Pause(ActionReading)
	}
	for _, d := range rec.slept {
		assert.GreaterOrEqual(t, d, 2000*time.Millisecond)
		assert.LessOrEqual(t, d, 4500*time.Millisecond)
	}
}

func TestPauseUnknownActionUsesDefaultBand(t *testing.T) {
	rec := &sleepRecorder{}
	h := newTestHumanizer(&fakeMouse{}, rec)

	h.Pause("no_such_action")
	require.Len(t, rec.slept, 1)
	assert.GreaterOrEqual(t, rec.slept[0], 500*time.Millisecond)
	assert.LessOrEqual(t, rec.slept[0], 1000*time.Millisecond)
}

func TestTypeLikeHumanProducesExactText(t *testing.T) {
	rec := &sleepRecorder{}
	h := newTestHumanizer(&fakeMouse{}, rec)

	el := newFakeElement("")
	// Enough text that the 1% typo path almost certainly fires at least
	// once with this seed; the backspace must erase it.
	text := "The quick brown fox jumps over the lazy dog, twice over."
	require.NoError(t, h.TypeLikeHuman(el, text))
	assert.Equal(t, text, el.value)
}

func TestTypeLikeHumanSpacePausesAreLonger(t *testing.T) {
	rec := &sleepRecorder{}
	h := newTestHumanizer(&fakeMouse{}, rec)

	el := newFakeElement("")
	require.NoError(t, h.TypeLikeHuman(el, "a b"))

	// Sleeps: before-typing pause, per-char gaps. Every gap lands in
	// 40–200ms and the space gap in 120–200ms.
	require.NotEmpty(t, rec.slept)
	for _, d := range rec.slept[1:] {
		assert.GreaterOrEqual(t, d, 40*time.Millisecond)
		assert.LessOrEqual(t, d, 200*time.Millisecond)
	}
}

func TestMoveAndClickWalksBezierToTarget(t *testing.T) {
	rec := &sleepRecorder{}
	mouse := &fakeMouse{}
	h := newTestHumanizer(mouse, rec)

	el := newFakeElement("")
	el.box = &Box{X: 100, Y: 200, Width: 80, Height: 30}

	require.NoError(t, h.MoveAndClick(el))

	// The click happens through raw mouse input at the pointer position.
	assert.Equal(t, 1, mouse.downs)
	assert.Equal(t, 1, mouse.ups)
	assert.Equal(t, 0, el.clicks)

	// More than a handful of interpolation steps, ending inside the box.
	require.Greater(t, len(mouse.moves), 10)
	final := mouse.moves[len(mouse.moves)-1]
	assert.GreaterOrEqual(t, final[0], 100.0)
	assert.LessOrEqual(t, final[0], 180.0)
	assert.GreaterOrEqual(t, final[1], 200.0)
	assert.LessOrEqual(t, final[1], 230.0)
}

func TestMoveAndClickWithoutBoxFallsBackToClick(t *testing.T) {
	rec := &sleepRecorder{}
	mouse := &fakeMouse{}
	h := newTestHumanizer(mouse, rec)

	el := newFakeElement("")
	require.NoError(t, h.MoveAndClick(el))
	assert.Equal(t, 1, el.clicks)
	assert.Empty(t, mouse.moves)
}
