package jobs

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadsense/api/internal/config"
)

func TestSchedulerRegistersJobs(t *testing.T) {
	queue := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = queue.Close() })

	s := NewScheduler(queue, &config.AppConfig{}, zerolog.Nop())
	require.NoError(t, s.Start())

	assert.Len(t, s.cron.Entries(), 2)

	// Stop must return synchronously once no job is running.
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler stop did not return")
	}
}

func TestSchedulerWithoutQueueIsInert(t *testing.T) {
	s := NewScheduler(nil, &config.AppConfig{}, zerolog.Nop())
	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())

	s.Stop()
	assert.NoError(t, s.enqueueTask(map[string]any{"type": "noop"}))
}
