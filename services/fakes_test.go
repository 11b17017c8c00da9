package services

import (
	"context"
	"fmt"
	"time"
)

// In-memory stand-ins for the page capability surface. Selectors are matched
// literally against the keys the test registered; there is no CSS engine.

type fakeElement struct {
	visible  bool
	value    string
	text     string
	attrs    map[string]string
	checked  bool
	box      *Box
	children map[string][]*fakeElement

	clicks    int
	files     string
	selected  string
	fillErr   error
	clickErr  error
	swallowed bool // Fill succeeds but the value never lands
}

func newFakeElement(text string) *fakeElement {
	return &fakeElement{
		visible:  true,
		text:     text,
		attrs:    map[string]string{},
		children: map[string][]*fakeElement{},
	}
}

func (e *fakeElement) IsVisible() (bool, error) { return e.visible, nil }

func (e *fakeElement) Click() error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	return nil
}

func (e *fakeElement) Fill(value string) error {
	if e.fillErr != nil {
		return e.fillErr
	}
	if !e.swallowed {
		e.value = value
	}
	return nil
}

func (e *fakeElement) Clear() error                 { e.value = ""; return nil }
func (e *fakeElement) InputValue() (string, error)  { return e.value, nil }
func (e *fakeElement) TextContent() (string, error) { return e.text, nil }

func (e *fakeElement) GetAttribute(name string) (string, error) {
	return e.attrs[name], nil
}

func (e *fakeElement) BoundingBox() (*Box, error) { return e.box, nil }

func (e *fakeElement) SetInputFiles(path string) error { e.files = path; return nil }
func (e *fakeElement) Check() error                    { e.checked = true; return nil }
func (e *fakeElement) IsChecked() (bool, error)        { return e.checked, nil }

func (e *fakeElement) Press(key string) error {
	if key == "Backspace" && len(e.value) > 0 {
		runes := []rune(e.value)
		e.value = string(runes[:len(runes)-1])
	}
	return nil
}

func (e *fakeElement) TypeText(text string) error { e.value += text; return nil }
func (e *fakeElement) ScrollIntoView() error      { return nil }

func (e *fakeElement) SelectOption(value string) error {
	e.selected = value
	e.value = value
	return nil
}

func (e *fakeElement) Locate(selector string) ([]Element, error) {
	return asElements(e.children[selector]), nil
}

func (e *fakeElement) First(selector string) (Element, error) {
	kids := e.children[selector]
	if len(kids) == 0 {
		return nil, nil
	}
	return kids[0], nil
}

type fakeMouse struct {
	moves [][2]float64
	downs int
	ups   int
}

func (m *fakeMouse) Move(x, y float64) error {
	m.moves = append(m.moves, [2]float64{x, y})
	return nil
}
func (m *fakeMouse) Down() error { m.downs++; return nil }
func (m *fakeMouse) Up() error   { m.ups++; return nil }

type fakePage struct {
	url      string
	title    string
	elements map[string][]*fakeElement
	frames   []Page
	mouse    *fakeMouse
	gotoErr  error
	closed   bool
}

func newFakePage() *fakePage {
	return &fakePage{
		url:      "https://boards.greenhouse.io/acme/jobs/123",
		elements: map[string][]*fakeElement{},
		mouse:    &fakeMouse{},
	}
}

func (p *fakePage) add(selector string, els ...*fakeElement) {
	p.elements[selector] = append(p.elements[selector], els...)
}

func (p *fakePage) Goto(ctx context.Context, url string) error {
	if p.gotoErr != nil {
		return p.gotoErr
	}
	p.url = url
	return nil
}

func (p *fakePage) WaitForLoad(ctx context.Context) error { return nil }
func (p *fakePage) URL() string                           { return p.url }
func (p *fakePage) Title() (string, error)                { return p.title, nil }

func (p *fakePage) Locate(selector string) ([]Element, error) {
	return asElements(p.elements[selector]), nil
}

func (p *fakePage) First(selector string) (Element, error) {
	els := p.elements[selector]
	if len(els) == 0 {
		return nil, nil
	}
	return els[0], nil
}

func (p *fakePage) Frames() []Page    { return p.frames }
func (p *fakePage) FrameURL() string  { return p.url }
func (p *fakePage) FrameName() string { return "" }
func (p *fakePage) Mouse() Mouse      { return p.mouse }
func (p *fakePage) Evaluate(js string) error {
	return nil
}
func (p *fakePage) Close() error { p.closed = true; return nil }

func asElements(els []*fakeElement) []Element {
	out := make([]Element, len(els))
	for i, e := range els {
		out[i] = e
	}
	return out
}

// blockedPrompter fails every intervention request, mimicking an unattended
// run hitting a login wall.
type blockedPrompter struct{}

func (blockedPrompter) WaitForHuman(ctx context.Context, reason string) error {
	return fmt.Errorf("%w: %s", ErrLoginWall, reason)
}

// okPrompter pretends a human fixed whatever was wrong.
type okPrompter struct{ called int }

func (p *okPrompter) WaitForHuman(ctx context.Context, reason string) error {
	p.called++
	return nil
}

// textField builds a greenhouse-style field container: a label plus a text
// input nested under it.
func textField(label string, input *fakeElement) *fakeElement {
	container := newFakeElement(label)
	lab := newFakeElement(label)
	container.children["label"] = []*fakeElement{lab}
	container.children[`input[type="text"], input[type="email"], input[type="tel"], input[type="url"], input[type="number"], input:not([type])`] = []*fakeElement{input}
	return container
}

// selectField builds a container holding a select with the given options.
func selectField(label string, options ...string) (*fakeElement, *fakeElement) {
	container := newFakeElement(label)
	lab := newFakeElement(label)
	container.children["label"] = []*fakeElement{lab}

	sel := newFakeElement("")
	var opts []*fakeElement
	for _, o := range options {
		opts = append(opts, newFakeElement(o))
	}
	sel.children["option"] = opts
	container.children["select"] = []*fakeElement{sel}
	return container, sel
}

// sleepRecorder captures humanizer sleeps for bound checks.
type sleepRecorder struct {
	slept []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.slept = append(s.slept, d)
}
