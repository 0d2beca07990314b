package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/piclinks/piclinks/internal/shared"
)

func TestCopier_Copy(t *testing.T) {
	t.Run("empty text is rejected", func(t *testing.T) {
		c := &Copier{fallback: &bytes.Buffer{}}
		if err := c.Copy(""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("Copy(\"\") error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("succeeds with a working fallback", func(t *testing.T) {
		// Either the native clipboard takes the text or the OSC 52 sequence
		// lands in the fallback writer; both count as success.
		var buf bytes.Buffer
		c := &Copier{fallback: &buf}
		if err := c.Copy("https://example.com/image_1.jpg"); err != nil {
			t.Errorf("Copy() error = %v", err)
		}
	})
}
