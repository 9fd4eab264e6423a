package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
)

func TestWorkerConfig(t *testing.T) {
	wc := WorkerConfig(config.Default().Sync)

	assert.Equal(t, 2*time.Second, wc.PollInterval)
	assert.Equal(t, 5, wc.BatchSize)
	assert.Equal(t, 3*time.Minute, wc.Lease)
	assert.Equal(t, time.Second, wc.InitialBackoff)
	assert.Equal(t, 5*time.Minute, wc.MaxBackoff)
	assert.InDelta(t, 0.2, wc.Jitter, 1e-9)
}
