package queue

type options struct {
	maxKey int
	sparse bool
}

// Option configures an IndexedQueue.
type Option func(*options)

// WithMaxKey sets the largest key the dense reference table accepts.
// The default is the queue capacity.
func WithMaxKey(maxKey int) Option {
	return func(o *options) {
		o.maxKey = maxKey
	}
}

// WithSparseKeys replaces the dense reference table with a hash map so any
// non-negative key is accepted. Lookups become amortized O(1).
func WithSparseKeys() Option {
	return func(o *options) {
		o.sparse = true
	}
}
