// Package chart holds quick-chart indicator picks and the view built from them.
package chart

// MaxSlots is the number of charts a quick-chart view can show.
const MaxSlots = 3

// Pick is one indicator chosen for charting.
type Pick struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	Unit  string `json:"unit"`
}

// Slots are filled left to right and never exceed MaxSlots.
type Slots []Pick

// Codes returns the picked indicator codes in slot order.
func (s Slots) Codes() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Code
	}
	return out
}

// Full reports whether every slot is taken.
func (s Slots) Full() bool { return len(s) >= MaxSlots }

// Bite is one chart in a quick-chart view.
type Bite struct {
	Pick
	Disabled bool `json:"disabled"`
}

// View configures quick charts over one resource of a dataset.
type View struct {
	Resource int    `json:"resource"`
	Bites    []Bite `json:"bites"`
}

// NewView builds a view from selected slots. Empty slots produce no bite.
func NewView(resource int, slots Slots) View {
	bites := make([]Bite, 0, len(slots))
	for _, p := range slots {
		bites = append(bites, Bite{Pick: p})
	}
	return View{Resource: resource, Bites: bites}
}

// NewHeadlineView builds a view over fixed headline picks, flagging the ones
// with no data as disabled. disabled must be indexed like headlines.
func NewHeadlineView(resource int, headlines []Pick, disabled []bool) View {
	bites := make([]Bite, len(headlines))
	for i, p := range headlines {
		bites[i] = Bite{Pick: p, Disabled: i < len(disabled) && disabled[i]}
	}
	return View{Resource: resource, Bites: bites}
}

// Enabled returns the bites that should be rendered.
func (v View) Enabled() []Bite {
	var out []Bite
	for _, b := range v.Bites {
		if !b.Disabled {
			out = append(out, b)
		}
	}
	return out
}
