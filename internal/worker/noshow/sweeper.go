package noshow

import (
	"context"
	"time"
)

// Sweeper периодически переводит закончившиеся неподтвержденные бронирования в no_show
type Sweeper struct {
	service  BookingsService
	interval time.Duration
	logger   Logger
}

// NewSweeper создает новый экземпляр фонового обработчика
func NewSweeper(service BookingsService, interval time.Duration, logger Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Run выполняет проход сразу и затем раз в interval, пока не отменён ctx
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("NoShowSweeper: started with interval %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			s.logger.Info("NoShowSweeper: stopped")
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	resp, err := s.service.MarkNoShows(ctx)
	if err != nil {
		s.logger.Error("NoShowSweeper: sweep failed: %v", err)
		return
	}
	if resp.MarkedCount > 0 {
		s.logger.Info("NoShowSweeper: marked %d bookings as no_show", resp.MarkedCount)
	}
}
