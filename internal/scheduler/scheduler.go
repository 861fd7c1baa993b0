package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/address-weather/internal/weather"
)

// ForecastWarmer is the part of weather.Service the scheduler drives.
type ForecastWarmer interface {
	WarmForecast(ctx context.Context, address string, horizon time.Duration) (weather.Forecast, error)
}

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = 15 * time.Minute

// Scheduler periodically refreshes forecasts for configured addresses so
// their postal areas stay warm in the forecast cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   ForecastWarmer
	addresses []string
	interval  time.Duration
	logger    *logrus.Logger
}

// New creates a new Scheduler.
func New(addresses []string, interval time.Duration, service ForecastWarmer, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		addresses: addresses,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the warm-up job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.addresses) == 0 {
		s.logger.Info("scheduler: no warm addresses configured; nothing to schedule")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.Warm); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Warm makes sure every configured address has a forecast cached that
// outlives the next run.
func (s *Scheduler) Warm() {
	s.logger.Debug("scheduler: running forecast warm-up job")

	var wg sync.WaitGroup
	for _, address := range s.addresses {
		address := address
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, err := s.service.WarmForecast(ctx, address, s.interval); err != nil {
				s.logger.WithField("address", address).WithError(err).Warn("scheduler: warm-up failed")
			}
		}()
	}
	wg.Wait()

	s.logger.Debug("scheduler: completed forecast warm-up job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}
