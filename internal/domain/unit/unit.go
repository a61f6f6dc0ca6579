// Package unit derives display units and short names from indicator titles.
//
// The rules are heuristics tuned against the provider's catalog, not a grammar.
// Extract applies them in order and returns on the first match.
package unit

import (
	"regexp"
	"strings"
)

const (
	coveragePrefix = "Coverage:"
	coverageUnit   = "Coverage Rate"
	numberOfPrefix = "Number of"
)

var (
	parenRe        = regexp.MustCompile(`\((.*?)\)`)
	perWordRe      = regexp.MustCompile(`\bper\b`)
	numericRangeRe = regexp.MustCompile(`^\d+-\d+$`)
	integerRe      = regexp.MustCompile(`^\d+$`)
	dollarRe       = regexp.MustCompile(`\$\s*\d`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// Extract returns the unit for an indicator title. matched is false when no rule
// applied and the trimmed title itself is returned; callers should log that case.
func Extract(title string) (unit string, matched bool) {
	if strings.HasPrefix(title, coveragePrefix) {
		return coverageUnit, true
	}

	titleHasPer := perWordRe.MatchString(title)

	if parts := parenRe.FindAllStringSubmatch(title, -1); len(parts) > 0 {
		inner := make([]string, len(parts))
		for i, p := range parts {
			inner[i] = p[1]
		}
		joined := strings.Join(inner, " ")
		if acceptParenthetical(joined, titleHasPer) {
			return joined, true
		}
	}

	if titleHasPer {
		if rest, ok := strings.CutPrefix(title, numberOfPrefix); ok {
			return strings.TrimSpace(rest), true
		}
		return strings.TrimSpace(title), true
	}

	lower := strings.ToLower(title)
	if strings.Contains(lower, "percentage") {
		return "%", true
	}
	if strings.Contains(lower, "population") {
		return "people", true
	}
	if rest, ok := strings.CutPrefix(title, numberOfPrefix); ok {
		return strings.TrimSpace(rest), true
	}
	if _, after, ok := strings.Cut(title, ","); ok {
		return strings.TrimSpace(after), true
	}
	return strings.TrimSpace(title), false
}

// acceptParenthetical rejects year ranges, bare numbers and money amounts, and
// defers to the whole-title rule when only the title mentions "per".
func acceptParenthetical(joined string, titleHasPer bool) bool {
	trimmed := strings.TrimSpace(joined)
	if numericRangeRe.MatchString(trimmed) || integerRe.MatchString(trimmed) || dollarRe.MatchString(joined) {
		return false
	}
	if titleHasPer && !perWordRe.MatchString(joined) {
		return false
	}
	return true
}

// ShortName strips a " (unit)" suffix from title when present verbatim.
func ShortName(title, unit string) string {
	if unit == "" {
		return title
	}
	return strings.ReplaceAll(title, " ("+unit+")", "")
}

// BaseName reduces a long title to its leading phrase: whitespace collapsed,
// cut at the first comma, parenthesis or colon.
func BaseName(title string) string {
	s := spaceRe.ReplaceAllString(title, " ")
	s, _, _ = strings.Cut(s, ",")
	s, _, _ = strings.Cut(s, "(")
	s, _, _ = strings.Cut(s, ":")
	return strings.TrimSpace(s)
}

// TopicTags lower-cases a topic label and splits it on " & ".
func TopicTags(label string) []string {
	lower := strings.ToLower(label)
	if !strings.Contains(lower, " & ") {
		return []string{strings.TrimSpace(lower)}
	}
	parts := strings.Split(lower, " & ")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
