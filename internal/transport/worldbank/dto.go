package worldbank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// flexInt accepts a JSON number, a numeric string or null.
// The API reports pagination counters in either form depending on the endpoint.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode counter: %w", err)
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("decode counter %q: %w", s, err)
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode counter: %w", err)
	}
	*f = flexInt(n)
	return nil
}

type metaDTO struct {
	Page    flexInt `json:"page"`
	Pages   flexInt `json:"pages"`
	PerPage flexInt `json:"per_page"`
	Total   flexInt `json:"total"`
}

type messageDTO struct {
	Message []struct {
		ID    string `json:"id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"message"`
}

type refDTO struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type sourceDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DataAvailability string `json:"dataavailability"`
}

type topicDTO struct {
	ID         string `json:"id"`
	Value      string `json:"value"`
	SourceNote string `json:"sourceNote"`
}

type indicatorDTO struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Source refDTO   `json:"source"`
	Topics []refDTO `json:"topics"`
}

type countryDTO struct {
	ID       string `json:"id"`
	ISO2Code string `json:"iso2Code"`
	Name     string `json:"name"`
	Region   refDTO `json:"region"`
}

type observationDTO struct {
	Indicator       refDTO   `json:"indicator"`
	Country         refDTO   `json:"country"`
	CountryISO3Code string   `json:"countryiso3code"`
	Date            string   `json:"date"`
	Value           *float64 `json:"value"`
}
