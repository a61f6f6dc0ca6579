package country

import (
	"strings"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	domchart "github.com/kailas-cloud/wbindicators/internal/domain/chart"
	"github.com/kailas-cloud/wbindicators/internal/domain/dataset"
	"github.com/kailas-cloud/wbindicators/internal/domain/observation"
	"github.com/kailas-cloud/wbindicators/internal/domain/topic"
	"github.com/kailas-cloud/wbindicators/internal/domain/unit"
	"github.com/kailas-cloud/wbindicators/internal/usecase/combined"
	"github.com/kailas-cloud/wbindicators/internal/usecase/merge"
)

func (s *Service) topicArtifact(
	c domain.Country, t topic.Topic, res *merge.Result, slots domchart.Slots,
) dataset.Artifact {
	name := dataset.TopicDatasetName(t.Name(), c.Name)
	file := dataset.TopicFile(t.Label(), c.ISO3)
	qcFile := dataset.QuickChartFile(file)
	resourceName := dataset.TopicResourceName(t.Name(), c.Name)
	tags := dataset.Tags(t.Tags()...)

	names := res.Names()
	baseNames := make([]string, 0, len(names))
	for _, n := range names {
		baseNames = append(baseNames, unit.BaseName(n))
	}

	m := dataset.Manifest{
		Name:     name,
		Title:    dataset.TopicTitle(c.Name, t.Name()),
		Notes:    dataset.TopicNotes(s.opts.DatasetURL, c.Name, t.SourceNote()),
		Location: strings.ToLower(c.ISO3),
		Tags:     tags,
		Resources: []dataset.Resource{
			{
				Name:        resourceName,
				Description: dataset.ResourceDescription(t.Name(), dataset.SortedUnique(baseNames)),
				File:        file,
				Format:      "csv",
			},
			{
				Name:        dataset.QuickChartResourceName(resourceName),
				Description: dataset.QuickChartDescription,
				File:        qcFile,
				Format:      "csv",
			},
		},
		Showcase: &dataset.Showcase{
			Name:     name + "-showcase",
			Title:    t.Name() + " indicators for " + c.Name,
			Notes:    t.Name() + " indicators for " + c.Name,
			URL:      dataset.TopicShowcaseURL(s.opts.PortalURL, t.Name(), c.ISO2),
			ImageURL: dataset.ImageURL,
			Tags:     tags,
		},
	}
	m.SetYears(res.Years)
	if len(slots) > 0 {
		view := domchart.NewView(s.opts.QuickChartResource, slots)
		m.View = &view
	}

	return dataset.Artifact{
		Manifest:       m,
		File:           file,
		Rows:           res.Rows,
		QuickChartFile: qcFile,
		QuickChartRows: observation.FilterCodes(res.Rows, slots.Codes()),
	}
}

func (s *Service) combinedArtifact(c domain.Country, res combined.Result) dataset.Artifact {
	name := dataset.CombinedDatasetName(c.Name)
	file := dataset.CombinedFile(c.ISO3)
	qcFile := dataset.QuickChartFile(file)
	resourceName := dataset.CombinedResourceName(c.Name)
	tags := dataset.Tags(res.Tags...)

	view := domchart.NewHeadlineView(s.opts.QuickChartResource, s.opts.Headlines, res.Disabled)
	m := dataset.Manifest{
		Name:     name,
		Title:    dataset.CombinedTitle(c.Name),
		Notes:    dataset.CombinedNotes(s.opts.DatasetURL, res.Topics),
		Location: strings.ToLower(c.ISO3),
		Tags:     tags,
		Resources: []dataset.Resource{
			{
				Name:        resourceName,
				Description: dataset.ResourceDescription(dataset.CombinedPhrase, nil),
				File:        file,
				Format:      "csv",
			},
			{
				Name:        dataset.QuickChartResourceName(resourceName),
				Description: dataset.QuickChartDescription,
				File:        qcFile,
				Format:      "csv",
			},
		},
		View: &view,
		Showcase: &dataset.Showcase{
			Name:     name + "-showcase",
			Title:    "Indicators for " + c.Name,
			Notes:    dataset.CombinedPhrase + " indicators for " + c.Name,
			URL:      dataset.CombinedShowcaseURL(s.opts.PortalURL, c.ISO2),
			ImageURL: dataset.ImageURL,
			Tags:     tags,
		},
	}
	m.SetYears(res.Years)

	return dataset.Artifact{
		Manifest:       m,
		File:           file,
		Rows:           res.Rows,
		QuickChartFile: qcFile,
		QuickChartRows: res.QuickChartRows,
	}
}
