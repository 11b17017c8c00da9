package services

import (
	"log"
	"math/rand"
	"time"
)

// Action kinds for Humanizer.Pause. Each maps to a named delay band so the
// pacing between logical steps never collapses into a uniform, bot-like
// timing signature.
const (
	ActionReading      = "reading"
	ActionThinking     = "thinking"
	ActionBeforeTyping = "before_typing"
	ActionAfterMove    = "after_move"
	ActionAfterClick   = "after_click"
	ActionScrolling    = "scrolling"
)

type delayBand struct {
	min, max time.Duration
}

var delayBands = map[string]delayBand{
	ActionReading:      {2000 * time.Millisecond, 4500 * time.Millisecond},
	ActionThinking:     {1000 * time.Millisecond, 3000 * time.Millisecond},
	ActionBeforeTyping: {500 * time.Millisecond, 1200 * time.Millisecond},
	ActionAfterMove:    {100 * time.Millisecond, 300 * time.Millisecond},
	ActionAfterClick:   {500 * time.Millisecond, 1500 * time.Millisecond},
	ActionScrolling:    {300 * time.Millisecond, 800 * time.Millisecond},
}

// Humanizer synthesizes human-like pointer paths, click pacing and typing
// cadence. It owns no page state; every method operates on the element or
// mouse it is handed. Randomness and sleeping are injected so tests can pin
// them down.
type Humanizer struct {
	mouse Mouse
	rng   *rand.Rand
	sleep func(time.Duration)
}

// NewHumanizer builds a humanizer over the given mouse, seeded from the
// clock.
func NewHumanizer(mouse Mouse) *Humanizer {
	return &Humanizer{
		mouse: mouse,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: time.Sleep,
	}
}

// NewHumanizerWithSource is the test constructor: deterministic randomness
// and a capturable sleep function.
func NewHumanizerWithSource(mouse Mouse, rng *rand.Rand, sleep func(time.Duration)) *Humanizer {
	return &Humanizer{mouse: mouse, rng: rng, sleep: sleep}
}

// Pause sleeps for a duration sampled uniformly from the action's delay band.
// Unknown actions get a conservative 0.5–1.0s.
func (h *Humanizer) Pause(action string) {
	band, ok := delayBands[action]
	if !ok {
		band = delayBand{500 * time.Millisecond, 1000 * time.Millisecond}
	}
	h.sleep(h.between(band.min, band.max))
}

// MoveAndClick walks the pointer along a quadratic bezier curve from a
// randomized start point to a jittered point inside the element, pauses,
// then presses and releases the mouse button at the pointer position.
// Elements without a bounding box (hidden, detached) and failing raw input
// fall back to a direct click.
func (h *Humanizer) MoveAndClick(el Element) error {
	box, err := el.BoundingBox()
	if err != nil || box == nil {
		return el.Click()
	}

	targetX := box.X + box.Width/2 + h.uniform(-10, 10)
	targetY := box.Y + box.Height/2 + h.uniform(-5, 5)

	// Approach from a random point near the element.
	startX := targetX + h.uniform(-200, 200)
	startY := targetY + h.uniform(-200, 200)

	if err := h.mouse.Move(startX, startY); err != nil {
		log.Printf("⚠️ Mouse move failed, clicking directly: %v", err)
		return el.Click()
	}
	h.moveBezier(startX, startY, targetX, targetY)

	h.Pause(ActionAfterMove)
	if err := h.mouse.Down(); err != nil {
		return el.Click()
	}
	h.sleep(h.between(20*time.Millisecond, 80*time.Millisecond))
	if err := h.mouse.Up(); err != nil {
		return err
	}
	h.Pause(ActionAfterClick)
	return nil
}

// moveBezier steps the pointer along a quadratic bezier with a jittered
// control point: 10–20 interpolation steps, 5–15ms apart.
func (h *Humanizer) moveBezier(x1, y1, x2, y2 float64) {
	cpX := (x1+x2)/2 + h.uniform(-50, 50)
	cpY := (y1+y2)/2 + h.uniform(-50, 50)

	steps := 10 + h.rng.Intn(11)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := (1-t)*(1-t)*x1 + 2*(1-t)*t*cpX + t*t*x2
		y := (1-t)*(1-t)*y1 + 2*(1-t)*t*cpY + t*t*y2
		if err := h.mouse.Move(x, y); err != nil {
			return
		}
		h.sleep(h.between(5*time.Millisecond, 15*time.Millisecond))
	}
}

// TypeLikeHuman types text one character at a time: 40–120ms between
// keystrokes, 120–200ms after a space, and a 1% chance per character of a
// typo that gets backspaced and retyped. The final field value is always
// exactly text.
func (h *Humanizer) TypeLikeHuman(el Element, text string) error {
	if err := el.Click(); err == nil {
		h.Pause(ActionBeforeTyping)
	}

	for _, ch := range text {
		if h.rng.Float64() < 0.01 {
			if err := el.TypeText(h.wrongKeyFor(ch)); err != nil {
				return err
			}
			h.sleep(100 * time.Millisecond)
			if err := el.Press("Backspace"); err != nil {
				return err
			}
			h.sleep(150 * time.Millisecond)
		}

		if err := el.TypeText(string(ch)); err != nil {
			return err
		}

		if ch == ' ' {
			h.sleep(h.between(120*time.Millisecond, 200*time.Millisecond))
		} else {
			h.sleep(h.between(40*time.Millisecond, 120*time.Millisecond))
		}
	}
	return nil
}

// ScrollNaturally wheel-scrolls toward an element in a few uneven bursts
// before letting the driver finish the job.
func (h *Humanizer) ScrollNaturally(el Element) {
	for i := 0; i < 3+h.rng.Intn(4); i++ {
		h.sleep(h.between(100*time.Millisecond, 300*time.Millisecond))
	}
	_ = el.ScrollIntoView()
}

// wrongKeyFor picks a plausible adjacent keystroke for a typo.
func (h *Humanizer) wrongKeyFor(ch rune) string {
	const row = "qwertyuiopasdfghjklzxcvbnm"
	if ch == ' ' {
		return "b"
	}
	return string(row[h.rng.Intn(len(row))])
}

func (h *Humanizer) between(min, max time.Duration) time.Duration {
	return min + time.Duration(h.rng.Int63n(int64(max-min)+1))
}

func (h *Humanizer) uniform(min, max float64) float64 {
	return min + h.rng.Float64()*(max-min)
}
