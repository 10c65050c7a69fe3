// internal/workers/vibe/calculate-vibe-match/config.go
package calculatevibematch

import (
	"time"

	"rooms-workers/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	SourceName string
}

func LoadConfig(wcfg config.WorkerConfig, sourceName string) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		Timeout:    timeout,
		SourceName: sourceName,
	}
}
