// Package batch partitions indicator codes into provider requests.
package batch

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/wbindicators/internal/domain"
)

// Separator joins codes in a request path.
const Separator = ";"

// Defaults used when a limit is left at zero.
const (
	DefaultIndicatorLimit    = 60
	DefaultCharacterLimit    = 1400
	DefaultIndicatorSubtract = 1
)

// Limits bound one request.
type Limits struct {
	IndicatorLimit    int // max codes per batch
	CharacterLimit    int // max length of the joined codes
	IndicatorSubtract int // codes dropped per shrink step
}

// Normalize fills zero values with defaults.
func (l Limits) Normalize() Limits {
	if l.IndicatorLimit == 0 {
		l.IndicatorLimit = DefaultIndicatorLimit
	}
	if l.CharacterLimit == 0 {
		l.CharacterLimit = DefaultCharacterLimit
	}
	if l.IndicatorSubtract == 0 {
		l.IndicatorSubtract = DefaultIndicatorSubtract
	}
	return l
}

// Validate rejects negative limits.
func (l Limits) Validate() error {
	if l.IndicatorLimit <= 0 || l.CharacterLimit <= 0 || l.IndicatorSubtract <= 0 {
		return fmt.Errorf("batch limits %+v must be positive: %w", l, domain.ErrInvalidConfig)
	}
	return nil
}

// Plan splits codes into consecutive batches of at most IndicatorLimit codes whose
// joined form fits CharacterLimit. An overflowing candidate loses IndicatorSubtract
// codes from its end until it fits, and the cursor resumes where it ended.
// Returns domain.ErrEmptyBatch when a single shrink would leave nothing.
func Plan(codes []string, limits Limits) ([][]string, error) {
	limits = limits.Normalize()
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	var batches [][]string
	for i := 0; i < len(codes); {
		end := min(i+limits.IndicatorLimit, len(codes))
		for len(Join(codes[i:end])) > limits.CharacterLimit {
			end -= limits.IndicatorSubtract
			if end <= i {
				return nil, fmt.Errorf("shrink batch at %s under %d chars: %w",
					codes[i], limits.CharacterLimit, domain.ErrEmptyBatch)
			}
		}
		batches = append(batches, codes[i:end:end])
		i = end
	}
	return batches, nil
}

// Join serializes a batch for the request path.
func Join(batch []string) string { return strings.Join(batch, Separator) }
