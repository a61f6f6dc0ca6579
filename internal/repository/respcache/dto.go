package respcache

import (
	"fmt"

	"github.com/kailas-cloud/wbindicators/internal/domain/indicator"
)

type indicatorDTO struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	SourceID string   `json:"source_id"`
	TopicIDs []string `json:"topic_ids,omitempty"`
}

func indicatorsToDTO(inds []indicator.Indicator) []indicatorDTO {
	out := make([]indicatorDTO, len(inds))
	for i, ind := range inds {
		out[i] = indicatorDTO{
			Code:     ind.Code(),
			Name:     ind.Name(),
			SourceID: ind.SourceID(),
			TopicIDs: ind.TopicIDs(),
		}
	}
	return out
}

func indicatorsFromDTO(dtos []indicatorDTO) ([]indicator.Indicator, error) {
	out := make([]indicator.Indicator, 0, len(dtos))
	for _, d := range dtos {
		ind, err := indicator.New(d.Code, d.Name, d.SourceID, d.TopicIDs)
		if err != nil {
			return nil, fmt.Errorf("decode cached indicator: %w", err)
		}
		out = append(out, ind)
	}
	return out, nil
}
