package jobs

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"roadsense/api/internal/config"
)

const maintenanceStream = "reports:maintenance"

type Scheduler struct {
	cron  *cron.Cron
	queue *redis.Client
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewScheduler(queue *redis.Client, cfg *config.AppConfig, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		queue: queue,
		cfg:   cfg,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 0 * * *", s.enqueueRetention); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.enqueueStatsRefresh); err != nil { // hourly
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// enqueueRetention asks the worker to purge closed and rejected reports older
// than the retention horizon.
func (s *Scheduler) enqueueRetention() {
	if err := s.enqueueTask(map[string]any{
		"type":          "retention",
		"retentionDays": s.cfg.Reports.RetentionDays,
	}); err != nil {
		s.log.Error().Err(err).Msg("enqueue retention failed")
	}
}

func (s *Scheduler) enqueueStatsRefresh() {
	if err := s.enqueueTask(map[string]any{
		"type":  "stats",
		"scope": "zones",
	}); err != nil {
		s.log.Error().Err(err).Msg("enqueue stats refresh failed")
	}
}

func (s *Scheduler) enqueueTask(payload map[string]any) error {
	if s.queue == nil {
		return nil
	}
	_, err := s.queue.XAdd(context.Background(), &redis.XAddArgs{
		Stream: maintenanceStream,
		Values: payload,
	}).Result()
	return err
}
