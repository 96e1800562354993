// Package clipboard sends text to the host's system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

var ErrUnsupported = errors.New("clipboard: no clipboard utility available")

type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}
