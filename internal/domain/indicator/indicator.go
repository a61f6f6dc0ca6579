package indicator

import (
	"errors"
	"strings"
)

// ErrEmptyCode signals an indicator without a code.
var ErrEmptyCode = errors.New("indicator code is required")

// Indicator describes one coded statistical time series. Identity is the code.
type Indicator struct {
	code     string
	name     string
	sourceID string
	topicIDs []string
}

// New creates an indicator descriptor.
func New(code, name, sourceID string, topicIDs []string) (Indicator, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Indicator{}, ErrEmptyCode
	}
	ids := make([]string, 0, len(topicIDs))
	seen := make(map[string]struct{}, len(topicIDs))
	for _, id := range topicIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return Indicator{code: code, name: name, sourceID: strings.TrimSpace(sourceID), topicIDs: ids}, nil
}

// Code returns the indicator code.
func (i Indicator) Code() string { return i.code }

// Name returns the long descriptive title.
func (i Indicator) Name() string { return i.name }

// SourceID returns the originating data source id.
func (i Indicator) SourceID() string { return i.sourceID }

// TopicIDs returns the topics the indicator belongs to.
func (i Indicator) TopicIDs() []string { return i.topicIDs }

// InTopic reports whether the indicator is tagged with the topic id.
func (i Indicator) InTopic(topicID string) bool {
	for _, id := range i.topicIDs {
		if id == topicID {
			return true
		}
	}
	return false
}

// Codes extracts codes in order.
func Codes(list []Indicator) []string {
	out := make([]string, len(list))
	for i, ind := range list {
		out[i] = ind.code
	}
	return out
}
