package dataset

import (
	"sort"

	"github.com/kailas-cloud/wbindicators/internal/domain/chart"
	"github.com/kailas-cloud/wbindicators/internal/domain/observation"
	"github.com/kailas-cloud/wbindicators/internal/domain/years"
)

// Resource is one file published with a dataset.
type Resource struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	File        string `json:"file"`
	Format      string `json:"format"`
}

// Showcase is the portal link published next to a dataset.
type Showcase struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Notes    string   `json:"notes"`
	URL      string   `json:"url"`
	ImageURL string   `json:"image_url"`
	Tags     []string `json:"tags"`
}

// Manifest is the metadata of one dataset handed to the publisher.
type Manifest struct {
	Name      string      `json:"name"`
	Title     string      `json:"title"`
	Notes     string      `json:"notes"`
	Location  string      `json:"location"`
	Tags      []string    `json:"tags"`
	StartYear int         `json:"start_year"`
	EndYear   int         `json:"end_year"`
	Resources []Resource  `json:"resources"`
	View      *chart.View `json:"quickchart,omitempty"`
	Showcase  *Showcase   `json:"showcase,omitempty"`
}

// SetYears copies the bounds of r into the manifest.
func (m *Manifest) SetYears(r years.Range) {
	m.StartYear, m.EndYear = r.Earliest(), r.Latest()
}

// Tags appends the fixed publishing tags, de-duplicates and sorts.
func Tags(tags ...string) []string {
	seen := make(map[string]struct{}, len(tags)+2)
	out := make([]string, 0, len(tags)+2)
	for _, t := range append(tags, "hxl", "indicators") {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SortedUnique returns the distinct non-empty values of in, sorted.
func SortedUnique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Artifact is a dataset ready for publishing: its manifest and the rows of
// its main and quick-chart files.
type Artifact struct {
	Manifest       Manifest
	File           string
	Rows           []observation.Observation
	QuickChartFile string
	QuickChartRows []observation.Observation
}
