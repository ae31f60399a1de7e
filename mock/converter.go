package mock

import "github.com/fwojciec/fasub"

var _ fasub.Converter = (*Converter)(nil)

// Converter is a mock implementation of fasub.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
