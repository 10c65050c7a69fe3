// internal/workers/vibe/derive-vibe-tags/config.go
package derivevibetags

import (
	"time"

	"rooms-workers/internal/common/config"
	"rooms-workers/internal/miko"
)

type Config struct {
	Timeout    time.Duration
	MaxLabels  int
	SourceName string
}

func LoadConfig(wcfg config.WorkerConfig, sourceName string) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		Timeout:    timeout,
		MaxLabels:  miko.DefaultLabelCount,
		SourceName: sourceName,
	}
}
