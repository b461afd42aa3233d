package mock

import "github.com/docyard/docyard"

var _ docyard.Converter = (*Converter)(nil)

// Converter is a mock implementation of docyard.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
