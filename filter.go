package parquet

import "fmt"

// Filter is the pluggable row-predicate hook: a row is kept when Apply
// returns true. Apply is evaluated after a row has been fully assembled,
// never against partial column state.
type Filter interface {
	Apply(row Row) (bool, error)
}

// FilterFunc adapts a plain function to a Filter.
type FilterFunc func(row Row) (bool, error)

// Apply calls f.
func (f FilterFunc) Apply(row Row) (bool, error) { return f(row) }

// FilteredRowIterator wraps a RowAssembler with a Filter. A Filter error
// aborts iteration rather than silently skipping the offending row, so a
// broken predicate cannot masquerade as an empty result.
type FilteredRowIterator struct {
	assembler *RowAssembler
	filter    Filter
	err       error
}

// NewFilteredRowIterator returns an iterator yielding assembler's rows
// for which filter.Apply reports true. A nil filter keeps every row.
func NewFilteredRowIterator(assembler *RowAssembler, filter Filter) *FilteredRowIterator {
	return &FilteredRowIterator{assembler: assembler, filter: filter}
}

// Err returns the error that halted iteration, from either row assembly
// or the filter itself.
func (it *FilteredRowIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.assembler.Err()
}

// Next returns the next row accepted by the filter, or (nil, false) once
// the underlying assembler is exhausted or an error occurred.
func (it *FilteredRowIterator) Next() (Row, bool) {
	if it.err != nil {
		return nil, false
	}
	for {
		row, ok := it.assembler.Next()
		if !ok {
			return nil, false
		}
		if it.filter == nil {
			return row, true
		}
		keep, err := it.filter.Apply(row)
		if err != nil {
			it.err = fmt.Errorf("%w: row filter: %s", ErrFormat, err)
			return nil, false
		}
		if keep {
			return row, true
		}
	}
}
