// Package bloom tracks visited results pages so that a pagination loop on
// the class search never fetches the same page twice.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Default sizing for one run's pagination.
const (
	DefaultExpectedPages     = 2000
	DefaultFalsePositiveRate = 0.001

	// DefaultExactPages is how many URLs are remembered exactly before the
	// filter relies on the Bloom filter alone. It covers a full pagination
	// walk, so a walk within it never skips a page it has not seen.
	DefaultExactPages = 256
)

// Filter remembers visited page URLs. The first exactLimit URLs are kept in
// an exact set; past that, membership comes from the Bloom filter, whose
// rare false positives end a walk early instead of letting it loop.
type Filter struct {
	f          *bloom.BloomFilter
	exact      map[string]struct{}
	exactLimit int
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate, remembering up to exactLimit URLs exactly.
func NewFilter(n uint, fpRate float64, exactLimit int) *Filter {
	return &Filter{
		f:          bloom.NewWithEstimates(n, fpRate),
		exact:      make(map[string]struct{}),
		exactLimit: exactLimit,
	}
}

// NewPageFilter creates a filter with the default page sizing.
func NewPageFilter() *Filter {
	return NewFilter(DefaultExpectedPages, DefaultFalsePositiveRate, DefaultExactPages)
}

// Visit adds url and reports whether it was new.
func (f *Filter) Visit(url string) bool {
	maybeSeen := f.f.TestAndAddString(url)
	if _, ok := f.exact[url]; ok {
		return false
	}
	if len(f.exact) < f.exactLimit {
		f.exact[url] = struct{}{}
		return true
	}
	return !maybeSeen
}
