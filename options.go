package compose

// DefaultThreshold is the vector length below which no splitting is
// attempted.
const DefaultThreshold = 100

// Option configures an Optimizer.
//
// Example:
//
//	opt := compose.NewOptimizer(
//	    compose.WithThreshold(200),
//	    compose.WithExactCardinality(true),
//	)
//	out := opt.Optimize(ctx)
type Option func(*optimizerOptions)

// optimizerOptions holds optional configuration for an Optimizer.
type optimizerOptions struct {
	threshold        int
	exactCardinality bool
	hasher           func(PropertyValue) uint64
	collisionCheck   bool
	workers          int
}

// defaultOptions returns the default optimizer options.
func defaultOptions() optimizerOptions {
	return optimizerOptions{
		threshold:      DefaultThreshold,
		hasher:         PropertyValue.Hash,
		collisionCheck: true,
		workers:        1,
	}
}

// WithThreshold sets the minimum vector length that makes a split worth
// considering. Values below 1 are ignored.
func WithThreshold(n int) Option {
	return func(o *optimizerOptions) {
		if n >= 1 {
			o.threshold = n
		}
	}
}

// WithExactCardinality makes the profitability check use the exact number
// of distinct values of each vector property instead of a count that stops
// once it exceeds the useful maximum. Exact counting can change the split
// decision for properties with many distinct values; it costs a full scan.
func WithExactCardinality(exact bool) Option {
	return func(o *optimizerOptions) {
		o.exactCardinality = exact
	}
}

// WithHasher replaces the per-value hash used to build group keys.
// A nil hasher restores PropertyValue.Hash.
func WithHasher(h func(PropertyValue) uint64) Option {
	return func(o *optimizerOptions) {
		if h == nil {
			h = PropertyValue.Hash
		}
		o.hasher = h
	}
}

// WithCollisionCheck controls whether indices whose property tuples hash
// alike are also compared for equality before sharing a group. It is on
// by default. Turning it off groups purely by hash, which merges distinct
// styles whenever two tuples collide.
func WithCollisionCheck(check bool) Option {
	return func(o *optimizerOptions) {
		o.collisionCheck = check
	}
}

// WithWorkers sets how many goroutines OptimizeTree may use. Values below
// 2 keep the traversal on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *optimizerOptions) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}
