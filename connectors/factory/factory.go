package factory

import (
	"fmt"

	"github.com/pjaos/chargeplan/connectors"
	"github.com/pjaos/chargeplan/connectors/clients/agile"
)

const (
	IDOctopusAgile = "octopus_agile"
)

var errUnknownClient = "unknown connector id: %s"

// NewTariffClient returns the tariff client registered under id.
func NewTariffClient(id string) (connectors.TariffClient, error) {
	switch id {
	case IDOctopusAgile:
		return &agile.Client{}, nil
	default:
		return nil, fmt.Errorf(errUnknownClient, id)
	}
}
