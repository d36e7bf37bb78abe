package objenc

// Selector tracks an ordered-set value's current encoding and decides when
// a mutation requires a one-shot promotion. It never demotes (spec §4.5,
// §8 property 8).
type Selector struct {
	cfg      config
	encoding Encoding
}

// New returns a Selector starting in Packed form.
func New(opts ...Option) *Selector {
	return &Selector{cfg: apply(opts), encoding: Packed}
}

// Encoding returns the current encoding.
func (s *Selector) Encoding() Encoding { return s.encoding }

// Thresholds returns the active thresholds.
func (s *Selector) Thresholds() Thresholds { return s.cfg.thresholds }

// ShouldPromote reports whether a value with the given element count and
// maximum element byte length must be in Large form.
func (s *Selector) ShouldPromote(count int, maxElementLen int) bool {
	return count > s.cfg.thresholds.MaxEntriesPacked || maxElementLen > s.cfg.thresholds.MaxValuePacked
}

// Promote transitions the selector to Large form. It is a no-op if already
// promoted; promotion is one-way.
func (s *Selector) Promote() {
	s.encoding = Large
}

// Observe inspects a mutation's resulting count/max-element-length and
// promotes if required, returning whether a promotion happened on this
// call.
func (s *Selector) Observe(count int, maxElementLen int) bool {
	if s.encoding == Large {
		return false
	}
	if s.ShouldPromote(count, maxElementLen) {
		s.Promote()
		return true
	}
	return false
}
