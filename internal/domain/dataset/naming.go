// Package dataset names and describes the publishable datasets built per country.
package dataset

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// CombinedPhrase describes the scope of the combined dataset.
	CombinedPhrase = "Economic, Social, Environmental, Health, Education, Development and Energy"
	// ToplineFile is the cross-country topline artifact.
	ToplineFile = "worldbank_topline.csv"
	// ImageURL is the showcase logo.
	ImageURL = "https://www.worldbank.org/content/dam/wbr/logo/logo-wb-header-en.svg"

	portalMention = "Contains data from the World Bank's [data portal](http://data.worldbank.org/)"
)

// Slug lower-cases s, folds accents and joins alphanumeric runs with '-'.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

// TopicDatasetName is the dataset slug for one topic of one country.
func TopicDatasetName(topicName, country string) string {
	return Slug(fmt.Sprintf("World Bank %s Indicators for %s", topicName, country))
}

// CombinedDatasetName is the dataset slug for all topics of one country.
func CombinedDatasetName(country string) string {
	return Slug("World Bank Combined Indicators for " + country)
}

// TopicTitle is the dataset title for one topic.
func TopicTitle(country, topicName string) string { return country + " - " + topicName }

// CombinedTitle is the dataset title for the combined dataset.
func CombinedTitle(country string) string { return country + " - " + CombinedPhrase }

// TopicFile is the indicator CSV name for a topic label.
func TopicFile(topicLabel, iso3 string) string {
	return fmt.Sprintf("%s_%s.csv", Slug(topicLabel), iso3)
}

// CombinedFile is the indicator CSV name for the combined dataset.
func CombinedFile(iso3 string) string { return fmt.Sprintf("indicators_%s.csv", iso3) }

// QuickChartFile is the cut-down CSV accompanying file.
func QuickChartFile(file string) string { return "qc_" + file }

// ManifestFile is the JSON manifest name for a dataset.
func ManifestFile(name string) string { return name + ".json" }

// TopicShowcaseURL links the provider portal page of a topic for a country.
func TopicShowcaseURL(portal, topicName, iso2 string) string {
	return fmt.Sprintf("%stopic/%s?locations=%s", portal, Slug(topicName), strings.ToUpper(iso2))
}

// CombinedShowcaseURL links the provider portal page of a country.
func CombinedShowcaseURL(portal, iso2 string) string {
	return fmt.Sprintf("%s?locations=%s", portal, strings.ToUpper(iso2))
}

// TopicNotes describes a topic dataset and links the combined one.
func TopicNotes(datasetURL, country, sourceNote string) string {
	notes := fmt.Sprintf("%s. There is also a [consolidated country dataset](%s%s) on HDX.",
		portalMention, datasetURL, CombinedDatasetName(country))
	if sourceNote != "" {
		notes += "\n\n" + sourceNote
	}
	return notes
}

// TopicLink references a published topic dataset.
type TopicLink struct {
	TopicName string
	Dataset   string
}

// CombinedNotes describes the combined dataset and links each topic dataset.
func CombinedNotes(datasetURL string, topics []TopicLink) string {
	links := make([]string, len(topics))
	for i, l := range topics {
		links[i] = fmt.Sprintf("[%s](%s%s)", l.TopicName, datasetURL, l.Dataset)
	}
	return fmt.Sprintf("%s covering the following topics which also exist as individual datasets on HDX: %s.",
		portalMention, strings.Join(links, ", "))
}

// TopicResourceName names the main resource of a topic dataset.
func TopicResourceName(topicName, country string) string {
	return fmt.Sprintf("%s Indicators for %s", topicName, country)
}

// CombinedResourceName names the main resource of the combined dataset.
func CombinedResourceName(country string) string { return "Combined Indicators for " + country }

// QuickChartResourceName names the cut-down resource.
func QuickChartResourceName(name string) string { return "QuickCharts-" + name }

// QuickChartDescription describes the cut-down resource.
const QuickChartDescription = "Cut down data for QuickCharts"

// ResourceDescription describes an indicator CSV and, when given, lists the
// indicator base names it contains.
func ResourceDescription(scope string, baseNames []string) string {
	desc := fmt.Sprintf("HXLated csv containing %s indicators", scope)
	if len(baseNames) > 0 {
		desc += "\n\nIndicators: " + strings.Join(baseNames, ", ")
	}
	return desc
}
