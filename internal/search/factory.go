package search

import (
	"fmt"
	"log"
)

// Provider names accepted by NewProvider
const (
	ProviderAdzuna     = "adzuna"
	ProviderGreenhouse = "greenhouse"
	ProviderSample     = "sample"
)

// ProviderConfig selects and configures a provider
type ProviderConfig struct {
	Name             string
	Adzuna           AdzunaConfig
	GreenhouseBoards []string
}

// NewProvider builds the named provider. Adzuna without credentials falls
// back to the sample catalogue with a warning.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case ProviderAdzuna, "":
		if cfg.Adzuna.AppID == "" || cfg.Adzuna.AppKey == "" {
			log.Printf("[search] WARNING: Adzuna credentials not set, using sample catalogue")
			return Sample{}, nil
		}
		return NewAdzuna(cfg.Adzuna), nil
	case ProviderGreenhouse:
		return NewGreenhouse(cfg.GreenhouseBoards), nil
	case ProviderSample:
		return Sample{}, nil
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", cfg.Name)
	}
}
