// Package quotes keeps the asset catalog's prices current.
//
// A cron scheduler refreshes assets according to their update frequency:
// realtime assets every minute, the others hourly or daily. This is a plain
// interval, failed refreshes are logged and picked up on the next tick, there
// is no retry or backoff.
package quotes

import (
	"context"
	"time"

	"github.com/pennywise/backend/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// refreshTimeout bounds a full refresh pass.
const refreshTimeout = 45 * time.Second

// Scheduler refreshes asset prices on a fixed schedule.
type Scheduler struct {
	db     *gorm.DB
	source Source
	cron   *cron.Cron
}

func NewScheduler(db *gorm.DB, source Source) *Scheduler {
	return &Scheduler{
		db:     db,
		source: source,
		cron:   cron.New(),
	}
}

// Start registers the refresh jobs and starts the scheduler in its own
// goroutine.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec      string
		frequency models.UpdateFrequency
	}{
		{"* * * * *", models.UpdateRealtime},
		{"@hourly", models.UpdateHourly},
		{"@daily", models.UpdateDaily},
	}

	for _, job := range jobs {
		frequency := job.frequency
		_, err := s.cron.AddFunc(job.spec, func() {
			s.Refresh(frequency)
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Info().Msg("quote scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("quote scheduler stopped")
}

// Refresh fetches quotes for all assets with the given update frequency and
// writes them back. A failing symbol is logged and skipped so that one bad
// quote does not starve the rest of the catalog.
func (s *Scheduler) Refresh(frequency models.UpdateFrequency) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	var assets []models.Asset
	err := s.db.Where(&models.Asset{UpdateFrequency: frequency}).Find(&assets).Error
	if err != nil {
		log.Error().Err(err).Str("frequency", string(frequency)).Msg("could not load assets for price refresh")
		return
	}

	for _, asset := range assets {
		quote, err := s.source.Quote(ctx, asset.Symbol)
		if err != nil {
			log.Warn().Err(err).Str("symbol", asset.Symbol).Msg("price refresh failed")
			continue
		}

		err = asset.SetPrice(s.db, quote.Price, quote.Change24h, quote.At)
		if err != nil {
			log.Error().Err(err).Str("symbol", asset.Symbol).Msg("could not store refreshed price")
		}
	}
}
