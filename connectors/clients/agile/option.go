package agile

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pjaos/chargeplan/connectors"
)

// WithRegion selects the DNO region the prices apply to.
func WithRegion(code string) connectors.Option {
	return func(c connectors.TariffClient) error {
		if a, ok := c.(*Client); ok {
			a.region = code
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithRegion", "agile")
	}
}

// WithPeriodFrom limits the response to rates ending after t.
func WithPeriodFrom(t time.Time) connectors.Option {
	return func(c connectors.TariffClient) error {
		if a, ok := c.(*Client); ok {
			a.periodFrom = t
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithPeriodFrom", "agile")
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) connectors.Option {
	return func(c connectors.TariffClient) error {
		if a, ok := c.(*Client); ok {
			a.httpClient = hc
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithHTTPClient", "agile")
	}
}
