package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"masjidku_meetings/internals/features/meetings/service"
)

// Sweeper dipenuhi oleh *service.SeriesService.
type Sweeper interface {
	SweepHorizons(ctx context.Context) (service.SweepSummary, error)
}

type SweepConfig struct {
	CronSchedule string         // format 5 field, mis. "5 0 * * *"
	Location     *time.Location // zona waktu jadwal
	Timeout      time.Duration
}

// StartHorizonSweepScheduler: isi ulang horizon semua seri aktif sesuai jadwal cron.
// Kembalikan *cron.Cron supaya pemanggil bisa Stop() saat shutdown.
func StartHorizonSweepScheduler(sw Sweeper, cfg SweepConfig) (*cron.Cron, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 4 * time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	c := cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(cfg.CronSchedule, func() { RunSweep(sw, cfg.Timeout) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("schedule", cfg.CronSchedule).Str("tz", cfg.Location.String()).Msg("[SWEEP] scheduler aktif")
	return c, nil
}

// RunSweep satu putaran sweep (dipanggil cron, bisa juga manual).
func RunSweep(sw Sweeper, timeout time.Duration) service.SweepSummary {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	sum, err := sw.SweepHorizons(ctx)
	if err != nil {
		log.Error().Err(err).Msg("[SWEEP] gagal")
		return sum
	}
	log.Info().
		Int("series", sum.SeriesVisited).
		Int("created", sum.MeetingsCreated).
		Int("failures", sum.Failures).
		Dur("took", time.Since(start)).
		Msg("[SWEEP] selesai")
	return sum
}
