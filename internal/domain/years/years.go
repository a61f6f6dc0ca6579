// Package years tracks the earliest and latest year seen across observations.
package years

// Range is an inclusive year range. The zero value is empty.
type Range struct {
	earliest int
	latest   int
	set      bool
}

// Of builds a range covering the given years.
func Of(ys ...int) Range {
	var r Range
	for _, y := range ys {
		r.Observe(y)
	}
	return r
}

// Observe widens the range to include year.
func (r *Range) Observe(year int) {
	if !r.set {
		r.earliest, r.latest, r.set = year, year, true
		return
	}
	if year < r.earliest {
		r.earliest = year
	}
	if year > r.latest {
		r.latest = year
	}
}

// Union widens the range to include other.
func (r *Range) Union(other Range) {
	if !other.set {
		return
	}
	r.Observe(other.earliest)
	r.Observe(other.latest)
}

// Empty reports whether no year has been observed.
func (r Range) Empty() bool { return !r.set }

// Earliest returns the first year (0 if empty).
func (r Range) Earliest() int { return r.earliest }

// Latest returns the last year (0 if empty).
func (r Range) Latest() int { return r.latest }
