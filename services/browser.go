package services

import "context"

// The engine talks to the browser through this narrow capability surface so
// that the automation logic stays independent of the driver library and so
// tests can run against in-memory fakes. The Playwright implementations live
// in playwright_page.go.

// Box is an element's bounding rectangle in page coordinates.
type Box struct {
	X, Y, Width, Height float64
}

// Element is a handle to a single DOM node.
type Element interface {
	IsVisible() (bool, error)
	Click() error
	Fill(value string) error
	Clear() error
	InputValue() (string, error)
	TextContent() (string, error)
	GetAttribute(name string) (string, error)
	BoundingBox() (*Box, error)
	SetInputFiles(path string) error
	Check() error
	IsChecked() (bool, error)
	Press(key string) error
	TypeText(text string) error
	ScrollIntoView() error
	SelectOption(value string) error

	// Locate scopes a selector to this element's subtree.
	Locate(selector string) ([]Element, error)
	// First returns the first visible-or-not match, or nil.
	First(selector string) (Element, error)
}

// Mouse drives raw pointer input for the humanizer.
type Mouse interface {
	Move(x, y float64) error
	Down() error
	Up() error
}

// Page is one browser tab (or one frame treated as a page).
type Page interface {
	Goto(ctx context.Context, url string) error
	WaitForLoad(ctx context.Context) error
	URL() string
	Title() (string, error)

	// Locate returns every match for the selector in document order.
	Locate(selector string) ([]Element, error)
	// First returns the first match, or nil when there is none.
	First(selector string) (Element, error)

	// Frames lists child frames, each usable as a Page. ATSes such as Taleo
	// bury their forms inside iframes.
	Frames() []Page
	FrameURL() string
	FrameName() string

	Mouse() Mouse
	Evaluate(js string) error
	Close() error
}
