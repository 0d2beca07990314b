package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/piclinks/piclinks/internal/shared"
)

// Copier places text on the system clipboard. When no native clipboard is
// reachable (headless sessions, SSH) it falls back to emitting an OSC 52
// escape sequence so the hosting terminal can capture the text instead.
type Copier struct {
	fallback io.Writer
}

// NewCopier creates a Copier writing its escape-sequence fallback to stderr.
func NewCopier() *Copier {
	return &Copier{fallback: os.Stderr}
}

// Copy puts text on the clipboard, using the OSC 52 fallback when the native
// clipboard is unavailable.
func (c *Copier) Copy(text string) error {
	if text == "" {
		return fmt.Errorf("%w: nothing to copy", shared.ErrInvalidInput)
	}

	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}

	if c.fallback == nil {
		return fmt.Errorf("%w: no clipboard available", shared.ErrInvalidInput)
	}
	if _, err := osc52.New(text).WriteTo(c.fallback); err != nil {
		return fmt.Errorf("clipboard fallback failed: %w", err)
	}
	return nil
}
