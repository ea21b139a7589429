package sampling

import "errors"

var ErrNotEnoughItems = errors.New("not enough items to sample")

// Sample picks k distinct elements of items uniformly at random with a
// partial Fisher-Yates shuffle. The result is in selection order and items is
// left untouched.
func Sample[T any](src Source, items []T, k int) ([]T, error) {
	if k < 0 || k > len(items) {
		return nil, ErrNotEnoughItems
	}

	pool := make([]T, len(items))
	copy(pool, items)

	n := len(pool)
	for i := 0; i < k; i++ {
		j := i + src.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:k], nil
}
