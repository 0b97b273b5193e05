package agile

import (
	"fmt"
	"sort"
	"time"

	"github.com/pjaos/chargeplan/core/tariff"
)

// Response mirrors the standard-unit-rates payload. Prices are pence
// per kWh including VAT.
type Response struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []struct {
		ValueExcVAT float64 `json:"value_exc_vat"`
		ValueIncVAT float64 `json:"value_inc_vat"`
		ValidFrom   string  `json:"valid_from"`
		ValidTo     string  `json:"valid_to"`
	} `json:"results"`
}

const rateTimeFormat = "2006-01-02T15:04:05Z"

// ToRates converts the payload to chronological rates in pounds per
// kWh. The API returns newest first; rates already elapsed are dropped.
func (r *Response) ToRates() ([]tariff.Rate, error) {
	now := time.Now().UTC()
	rates := make([]tariff.Rate, 0, len(r.Results))
	for _, rec := range r.Results {
		from, err := time.Parse(rateTimeFormat, rec.ValidFrom)
		if err != nil {
			return nil, fmt.Errorf("failed to parse valid_from: %w", err)
		}
		to, err := time.Parse(rateTimeFormat, rec.ValidTo)
		if err != nil {
			return nil, fmt.Errorf("failed to parse valid_to: %w", err)
		}
		if !to.After(now) {
			continue
		}
		rates = append(rates, tariff.Rate{
			Start: from,
			End:   to,
			Price: rec.ValueIncVAT / 100,
		})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Start.Before(rates[j].Start) })
	return rates, nil
}
