// Package connectors defines the client interface for fetching
// day-ahead electricity prices from an external tariff provider.
package connectors

import (
	"context"

	"github.com/pjaos/chargeplan/core/tariff"
)

const ErrIncompatibleOption = "option %s is not compatible with client %s"

// Option configures a TariffClient before a fetch.
type Option func(TariffClient) error

type TariffClient interface {
	Fetch(ctx context.Context, opts ...Option) (TariffResponse, error)
}

type TariffResponse interface {
	ToRates() ([]tariff.Rate, error)
}
