package utils

import (
	"fmt"

	"catalog-scraper/internal/types"
)

// NewLauncher returns the browser launcher selected by config.Driver
func NewLauncher(config *types.Config, logger types.Logger) (types.BrowserLauncher, error) {
	switch config.Driver {
	case types.DriverChromedp:
		return NewChromeLauncher(config, logger), nil
	case types.DriverRod:
		return NewRodLauncher(config, logger), nil
	case types.DriverHTTP:
		return NewHTTPClient(config, logger), nil
	default:
		return nil, fmt.Errorf("unknown driver: %s", config.Driver)
	}
}
