// internal/workers/listings/rank-by-distance/config.go
package rankbydistance

import (
	"time"

	"rooms-workers/internal/common/config"
	"rooms-workers/internal/geo"
)

type Config struct {
	Timeout         time.Duration
	DefaultRadiusKm float64
	SourceName      string
}

func LoadConfig(wcfg config.WorkerConfig, sourceName string) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		Timeout:         timeout,
		DefaultRadiusKm: geo.DefaultRadiusKm,
		SourceName:      sourceName,
	}
}
