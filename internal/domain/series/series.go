package series

import "sort"

// Series maps indicator code -> year -> value, remembering the order
// in which codes were first inserted.
type Series struct {
	values map[string]map[int]float64
	order  []string
}

// New creates an empty series.
func New() *Series {
	return &Series{values: make(map[string]map[int]float64)}
}

// Set records a value. A later value for the same code and year replaces the earlier one.
func (s *Series) Set(code string, year int, value float64) {
	years, ok := s.values[code]
	if !ok {
		years = make(map[int]float64)
		s.values[code] = years
		s.order = append(s.order, code)
	}
	years[year] = value
}

// Len returns the number of distinct codes.
func (s *Series) Len() int { return len(s.order) }

// Codes returns codes in insertion order.
func (s *Series) Codes() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// ByCodeLength returns codes ordered by code length, ties kept in insertion order.
func (s *Series) ByCodeLength() []string {
	out := s.Codes()
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) < len(out[j]) })
	return out
}

// Values returns the year -> value map for a code (nil if absent).
func (s *Series) Values(code string) map[int]float64 { return s.values[code] }

// Value returns a single point.
func (s *Series) Value(code string, year int) (float64, bool) {
	v, ok := s.values[code][year]
	return v, ok
}

// Distinct returns the number of distinct values recorded for a code.
func (s *Series) Distinct(code string) int {
	seen := make(map[float64]struct{})
	for _, v := range s.values[code] {
		seen[v] = struct{}{}
	}
	return len(seen)
}
