package service

import (
	"time"

	"github.com/faanskit/flygprov/config"
	"github.com/rs/zerolog/log"
)

// Scheduler triggers the daily archival pass. It ticks every minute and
// fires when the wall clock matches the configured HH:MM, so a run happens
// at most once per minute slot.
type Scheduler struct {
	cfg        *config.Config
	archiveSvc ArchiveService
	stop       chan struct{}
}

func NewScheduler(cfg *config.Config, archiveSvc ArchiveService) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		archiveSvc: archiveSvc,
		stop:       make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	log.Info().Str("runAt", s.cfg.Archive.RunAt).Msg("Archival scheduler starting")
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if time.Now().UTC().Format("15:04") == s.cfg.Archive.RunAt {
					s.runOnce()
				}
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	close(s.stop)
	log.Info().Msg("Archival scheduler stopped")
}

func (s *Scheduler) runOnce() {
	log.Info().Int("gracePeriodDays", s.cfg.Archive.GracePeriodDays).Msg("Running daily archival pass")

	summary, err := s.archiveSvc.Run(
		s.cfg.Archive.GracePeriodDays,
		time.Duration(s.cfg.Archive.StaleAttemptHours)*time.Hour,
	)
	if err != nil {
		log.Error().Err(err).Msg("Daily archival pass failed")
		return
	}
	log.Info().Int("archivedStudents", summary.ArchivedStudents).
		Int64("sweptAttempts", summary.SweptAttempts).Msg("Daily archival pass finished")
}
