package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
)

// Prompter asks a human to intervene when automation hits something it must
// not handle itself, like a login wall or a CAPTCHA. The engine never types
// credentials; it parks the browser, asks, and resumes once the human says
// so (or gives up when the context expires).
type Prompter interface {
	// WaitForHuman blocks until the human confirms they resolved the
	// situation described by reason, or ctx is cancelled.
	WaitForHuman(ctx context.Context, reason string) error
}

// StdinPrompter waits for a newline on an input stream; the default is the
// process's stdin.
type StdinPrompter struct {
	in io.Reader
}

func NewStdinPrompter() *StdinPrompter {
	return &StdinPrompter{in: os.Stdin}
}

func (p *StdinPrompter) WaitForHuman(ctx context.Context, reason string) error {
	log.Printf("=== HUMAN INTERVENTION NEEDED ===")
	log.Printf("%s", reason)
	log.Printf("Resolve it in the browser window, then press Enter to continue...")

	done := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(p.in)
		_, err := reader.ReadString('\n')
		done <- err
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for human intervention: %w", ctx.Err())
	case err := <-done:
		if err != nil && err != io.EOF {
			return fmt.Errorf("reading intervention confirmation: %v", err)
		}
		log.Printf("✓ Human intervention complete, resuming")
		return nil
	}
}

// NoopPrompter fails immediately; used in headless batch runs where nobody
// is watching the browser.
type NoopPrompter struct{}

func (NoopPrompter) WaitForHuman(ctx context.Context, reason string) error {
	return fmt.Errorf("%w: %s (no operator attached)", ErrLoginWall, reason)
}
