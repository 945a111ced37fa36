package format

import "github.com/kndndrj/rowconv/core"

// overflowWarner reports the first overflowing cell of a run and ignores the
// rest.
type overflowWarner struct {
	log        core.Logger
	overflowed bool
}

func (o *overflowWarner) warn(value []byte) {
	if len(value) == 0 || o.overflowed {
		return
	}
	o.overflowed = true

	if o.log != nil {
		o.log.Errorf("overflow! %s (subsequent overflows will be suppressed)", value)
	}
}
