// Package objenc implements the core's encoding-selection policy (spec
// §4.6): a thin dispatch layer that decides, from element count and
// maximum element size, whether an ordered-set value should live in its
// compact packed-list form or its scalable skip-list+hash-table form. The
// functional-options config shape mirrors gsfa/store/option.go's
// config/Option/apply idiom.
package objenc

// Encoding identifies which representation an ordered-set value currently
// uses. This is the tagged-variant replacement for the source's encoding
// integer (spec §9).
type Encoding int

const (
	Packed Encoding = iota
	Large
)

func (e Encoding) String() string {
	if e == Packed {
		return "packed"
	}
	return "large"
}

// Thresholds are the two tunables that drive promotion (spec §6).
type Thresholds struct {
	// MaxEntriesPacked is the element count above which a value promotes.
	MaxEntriesPacked int
	// MaxValuePacked is the element byte length above which a value
	// promotes, regardless of count.
	MaxValuePacked int
}

// DefaultThresholds returns the spec's recommended defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxEntriesPacked: 128, MaxValuePacked: 64}
}

type config struct {
	thresholds Thresholds
}

// Option configures a Selector.
type Option func(*config)

// WithMaxEntriesPacked overrides MAX_ENTRIES_PACKED.
func WithMaxEntriesPacked(n int) Option {
	return func(c *config) { c.thresholds.MaxEntriesPacked = n }
}

// WithMaxValuePacked overrides MAX_VALUE_PACKED.
func WithMaxValuePacked(n int) Option {
	return func(c *config) { c.thresholds.MaxValuePacked = n }
}

func apply(opts []Option) config {
	c := config{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
