package speedrun

import "iter"

// Stream is a lazily produced, finite, single-pass sequence of T.
//
// Elements are decoded (and, for some relations, fetched) only as Next is
// called. A Stream cannot be rewound: once drained, or once an error is
// hit, further calls to Next return false. Callers that need to iterate
// more than once must materialize it with Collect.
//
//	for s.Next() {
//		use(s.Value())
//	}
//	if err := s.Err(); err != nil {
//		...
//	}
type Stream[T any] struct {
	pull func() (T, bool, error)
	cur  T
	err  error
	done bool
}

func newStream[T any](pull func() (T, bool, error)) *Stream[T] {
	return &Stream[T]{pull: pull}
}

// decodeStream decodes items one at a time as they are consumed
func decodeStream[T any](items []any, t Transport, decode func(any, Transport) (T, error)) *Stream[T] {
	i := 0
	return newStream(func() (T, bool, error) {
		var zero T
		if i >= len(items) {
			return zero, false, nil
		}
		item := items[i]
		i++
		v, err := decode(item, t)
		if err != nil {
			return zero, false, err
		}
		return v, true, nil
	})
}

// Next advances to the next element and reports whether there is one
func (s *Stream[T]) Next() bool {
	if s.done {
		return false
	}
	v, ok, err := s.pull()
	if err != nil {
		s.err = err
	}
	if !ok || err != nil {
		var zero T
		s.cur = zero
		s.done = true
		s.pull = nil
		return false
	}
	s.cur = v
	return true
}

// Value returns the element produced by the last successful Next
func (s *Stream[T]) Value() T {
	return s.cur
}

// Err returns the error that stopped the stream, if any
func (s *Stream[T]) Err() error {
	return s.err
}

// All consumes the stream as an iterator. A failure is yielded once as the
// final pair.
func (s *Stream[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for s.Next() {
			if !yield(s.Value(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect drains the stream into a slice
func (s *Stream[T]) Collect() ([]T, error) {
	var out []T
	for s.Next() {
		out = append(out, s.Value())
	}
	return out, s.Err()
}

