package services

import (
	"context"
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"

	"autoapply/config"
)

// Browser owns the Playwright runtime, the launched Chromium instance and
// the stealth-configured context. One Browser serves the whole run; each
// job gets its own tab via NewPage.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	cfg     config.BrowserConfig
}

// LaunchBrowser starts Playwright, launches Chromium with the
// anti-automation-detection arguments, and builds a context with a realistic
// fingerprint plus the stealth init script.
func LaunchBrowser(cfg config.BrowserConfig) (*Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMoMs)),
		Args:     stealthLaunchArgs,
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		},
		UserAgent:  playwright.String(cfg.UserAgent),
		Locale:     playwright.String(cfg.Locale),
		TimezoneId: playwright.String(cfg.TimezoneID),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	if err := browserCtx.AddInitScript(playwright.Script{
		Content: playwright.String(stealthInitScript),
	}); err != nil {
		log.Printf("⚠️ Could not install stealth script: %v", err)
	}

	return &Browser{pw: pw, browser: browser, context: browserCtx, cfg: cfg}, nil
}

// NewPage opens a fresh tab wrapped in the engine's Page interface.
func (b *Browser) NewPage() (Page, error) {
	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page.SetDefaultTimeout(float64(b.cfg.NavTimeout.Milliseconds()))
	return &pwPage{page: page, navTimeout: float64(b.cfg.NavTimeout.Milliseconds())}, nil
}

// Close tears down the context, the browser and the Playwright runtime.
func (b *Browser) Close() error {
	if b.context != nil {
		b.context.Close()
	}
	if b.browser != nil {
		b.browser.Close()
	}
	if b.pw != nil {
		return b.pw.Stop()
	}
	return nil
}

// pwPage adapts a playwright.Page (or a frame) to the Page interface.
type pwPage struct {
	page       playwright.Page
	frame      playwright.Frame
	navTimeout float64
}

func (p *pwPage) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(p.navTimeout),
	})
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (p *pwPage) WaitForLoad(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(p.navTimeout),
	})
}

func (p *pwPage) URL() string {
	if p.frame != nil {
		return p.frame.URL()
	}
	return p.page.URL()
}

func (p *pwPage) Title() (string, error) {
	if p.frame != nil {
		return p.frame.Title()
	}
	return p.page.Title()
}

func (p *pwPage) locator(selector string) playwright.Locator {
	if p.frame != nil {
		return p.frame.Locator(selector)
	}
	return p.page.Locator(selector)
}

func (p *pwPage) Locate(selector string) ([]Element, error) {
	all, err := p.locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("locating %q: %w", selector, err)
	}
	elements := make([]Element, len(all))
	for i, loc := range all {
		elements[i] = &pwElement{loc: loc}
	}
	return elements, nil
}

func (p *pwPage) First(selector string) (Element, error) {
	loc := p.locator(selector).First()
	count, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("counting %q: %w", selector, err)
	}
	if count == 0 {
		return nil, nil
	}
	return &pwElement{loc: loc}, nil
}

func (p *pwPage) Frames() []Page {
	frames := p.page.Frames()
	out := make([]Page, 0, len(frames))
	for _, f := range frames {
		out = append(out, &pwPage{page: p.page, frame: f, navTimeout: p.navTimeout})
	}
	return out
}

func (p *pwPage) FrameURL() string {
	if p.frame != nil {
		return p.frame.URL()
	}
	return p.page.URL()
}

func (p *pwPage) FrameName() string {
	if p.frame != nil {
		return p.frame.Name()
	}
	return ""
}

func (p *pwPage) Mouse() Mouse {
	return &pwMouse{mouse: p.page.Mouse()}
}

func (p *pwPage) Evaluate(js string) error {
	_, err := p.page.Evaluate(js)
	return err
}

func (p *pwPage) Close() error {
	return p.page.Close()
}

// pwElement adapts a playwright.Locator to the Element interface.
type pwElement struct {
	loc playwright.Locator
}

func (e *pwElement) IsVisible() (bool, error)     { return e.loc.IsVisible() }
func (e *pwElement) Click() error                 { return e.loc.Click() }
func (e *pwElement) Fill(value string) error      { return e.loc.Fill(value) }
func (e *pwElement) Clear() error                 { return e.loc.Clear() }
func (e *pwElement) InputValue() (string, error)  { return e.loc.InputValue() }
func (e *pwElement) TextContent() (string, error) { return e.loc.TextContent() }
func (e *pwElement) Check() error                 { return e.loc.Check() }
func (e *pwElement) IsChecked() (bool, error)     { return e.loc.IsChecked() }
func (e *pwElement) Press(key string) error       { return e.loc.Press(key) }

func (e *pwElement) GetAttribute(name string) (string, error) {
	val, err := e.loc.GetAttribute(name)
	if err != nil {
		return "", err
	}
	return val, nil
}

func (e *pwElement) BoundingBox() (*Box, error) {
	rect, err := e.loc.BoundingBox()
	if err != nil || rect == nil {
		return nil, err
	}
	return &Box{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height}, nil
}

func (e *pwElement) SetInputFiles(path string) error {
	return e.loc.SetInputFiles(path)
}

func (e *pwElement) TypeText(text string) error {
	return e.loc.PressSequentially(text)
}

func (e *pwElement) ScrollIntoView() error {
	return e.loc.ScrollIntoViewIfNeeded()
}

func (e *pwElement) SelectOption(value string) error {
	_, err := e.loc.SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{value},
	})
	return err
}

func (e *pwElement) Locate(selector string) ([]Element, error) {
	all, err := e.loc.Locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("locating %q: %w", selector, err)
	}
	elements := make([]Element, len(all))
	for i, loc := range all {
		elements[i] = &pwElement{loc: loc}
	}
	return elements, nil
}

func (e *pwElement) First(selector string) (Element, error) {
	loc := e.loc.Locator(selector).First()
	count, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("counting %q: %w", selector, err)
	}
	if count == 0 {
		return nil, nil
	}
	return &pwElement{loc: loc}, nil
}

// pwMouse adapts playwright's mouse.
type pwMouse struct {
	mouse playwright.Mouse
}

func (m *pwMouse) Move(x, y float64) error { return m.mouse.Move(x, y) }
func (m *pwMouse) Down() error             { return m.mouse.Down() }
func (m *pwMouse) Up() error               { return m.mouse.Up() }
