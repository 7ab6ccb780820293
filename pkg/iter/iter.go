package iter

import (
	"iter"
	"time"
)

// Concat2 yields the elements of each sequence in turn.
func Concat2[K any, V any](sequences ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, sequence := range sequences {
			for kElement, vElement := range sequence {
				if !yield(kElement, vElement) {
					return
				}
			}
		}
	}
}

// Chunks yields each string as a body chunk.
func Chunks(chunks ...string) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, chunk := range chunks {
			if !yield([]byte(chunk), nil) {
				return
			}
		}
	}
}

// Paced yields the chunks of sequence with interval between them.
func Paced(sequence iter.Seq2[[]byte, error], interval time.Duration) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		first := true
		for chunk, err := range sequence {
			if !first && interval > 0 {
				time.Sleep(interval)
			}
			first = false

			if !yield(chunk, err) {
				return
			}
		}
	}
}

// Fail yields err as the terminal element of a body sequence.
func Fail(err error) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		yield(nil, err)
	}
}
