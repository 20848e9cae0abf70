// Package clipboard abstracts the system clipboard as a write-only text sink.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard is a sink with a single operation: set the current text. It may fail.
type Clipboard interface {
	SetText(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// NewSystemClipboard creates a new SystemClipboard instance.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

// SetText replaces the clipboard content with text.
func (c *SystemClipboard) SetText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
