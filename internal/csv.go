package internal

import (
	"encoding/csv"
	"io"
	"iter"
)

type Result[T any] struct {
	Value T
	Error error
}

// ParseCSV yields one converted value per record; iteration stops after the first error.
func ParseCSV[T any](reader io.Reader, hasHeaders bool, fromCSV func(record, headers []string) (T, error)) iter.Seq[Result[T]] {
	return func(yield func(Result[T]) bool) {
		r := csv.NewReader(reader)
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true

		var headers []string
		if hasHeaders {
			h, err := r.Read()
			if err != nil {
				if err != io.EOF {
					yield(Result[T]{Error: err})
				}
				return
			}
			headers = h
		}

		for {
			record, err := r.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Result[T]{Error: err})
				return
			}

			value, err := fromCSV(record, headers)
			if !yield(Result[T]{Value: value, Error: err}) || err != nil {
				return
			}
		}
	}
}
