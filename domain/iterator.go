package domain

// PageFunc fetches the next batch of items for an Iterator. It returns the
// items, whether more batches may follow, and any fetch error. Implementations
// typically close over a vendor SDK listing call and its page cursor.
type PageFunc[T any] func() (items []T, more bool, err error)

// Iterator is a lazy, finite, forward-only sequence over a remote listing.
// Pages are fetched as the caller consumes elements, so iterating may issue
// multiple blocking network calls. A consumed Iterator cannot be rewound;
// invoke the listing method again for a fresh sequence reflecting current
// remote state.
//
// Usage follows the bufio.Scanner convention:
//
//	it := repo.Branches(ctx)
//	for it.Next() {
//		branch := it.Value()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Iterator[T any] struct {
	fetch   PageFunc[T]
	buf     []T
	current T
	more    bool
	err     error
}

// NewIterator creates an Iterator drawing elements from fetch.
func NewIterator[T any](fetch PageFunc[T]) *Iterator[T] {
	return &Iterator[T]{fetch: fetch, more: true}
}

// SliceIterator creates an Iterator over an already-materialized list.
func SliceIterator[T any](items []T) *Iterator[T] {
	return &Iterator[T]{buf: items}
}

// Next advances to the next element, fetching a new page when the buffered one
// is exhausted. It returns false at the end of the sequence or on error.
func (it *Iterator[T]) Next() bool {
	if it.err != nil {
		return false
	}

	for len(it.buf) == 0 {
		if !it.more || it.fetch == nil {
			return false
		}

		items, more, err := it.fetch()
		if err != nil {
			it.err = err
			it.more = false
			return false
		}
		it.buf = items
		it.more = more
	}

	it.current = it.buf[0]
	it.buf = it.buf[1:]
	return true
}

// Value returns the element produced by the last successful Next call.
func (it *Iterator[T]) Value() T {
	return it.current
}

// Err returns the first error encountered while fetching, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Collect drains the remaining elements into a slice. It returns the fetch
// error, if any, alongside the elements consumed before it occurred.
func (it *Iterator[T]) Collect() ([]T, error) {
	var items []T
	for it.Next() {
		items = append(items, it.Value())
	}
	return items, it.Err()
}
