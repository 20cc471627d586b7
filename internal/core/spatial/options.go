package spatial

const (
	DefaultLeafCapacity = 4
	DefaultMaxDepth     = 8
)

// Option tunes a tree at construction time.
type Option func(*options)

type options struct {
	leafCapacity int
	maxDepth     int
}

// WithLeafCapacity sets how many records a leaf may hold before it splits.
// Values below 1 are clamped to 1.
func WithLeafCapacity(n int) Option {
	return func(o *options) { o.leafCapacity = n }
}

// WithMaxDepth sets the deepest level a node may reach (the root is depth 0).
// Values below 1 are clamped to 1.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

func newOptions(opts ...Option) options {
	o := options{
		leafCapacity: DefaultLeafCapacity,
		maxDepth:     DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.leafCapacity < 1 {
		o.leafCapacity = 1
	}
	if o.maxDepth < 1 {
		o.maxDepth = 1
	}
	return o
}

// splits reports whether a node at depth holding count records must be partitioned.
func (o options) splits(count, depth int) bool {
	return count > o.leafCapacity && depth < o.maxDepth
}
