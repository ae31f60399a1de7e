package mock

import "github.com/fwojciec/fasub"

var _ fasub.Fingerprinter = (*Fingerprinter)(nil)

// Fingerprinter is a mock implementation of fasub.Fingerprinter.
type Fingerprinter struct {
	FingerprintFn func(data []byte) (*fasub.Fingerprint, error)
}

func (f *Fingerprinter) Fingerprint(data []byte) (*fasub.Fingerprint, error) {
	return f.FingerprintFn(data)
}
