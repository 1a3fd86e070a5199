package monitoring

import (
	"context"
	"time"

	"github.com/medwaste/classify-be/internal/services"
	"github.com/medwaste/classify-be/internal/websocket"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StatsBroadcaster pushes fresh dashboard snapshots to connected
// administrator sockets on a fixed schedule, so open dashboards stay
// current without polling.
type StatsBroadcaster struct {
	stats services.StatsServiceProvider
	hub   *websocket.Hub
	cron  *cron.Cron
}

// NewStatsBroadcaster creates a new StatsBroadcaster.
func NewStatsBroadcaster(stats services.StatsServiceProvider, hub *websocket.Hub) *StatsBroadcaster {
	return &StatsBroadcaster{stats: stats, hub: hub}
}

// Start schedules snapshots with the given cron expression.
func (b *StatsBroadcaster) Start(spec string) error {
	b.cron = cron.New()
	if _, err := b.cron.AddFunc(spec, b.push); err != nil {
		return err
	}
	b.cron.Start()
	log.Info().Str("schedule", spec).Msg("Started dashboard stats broadcaster")
	return nil
}

// Stop halts the schedule.
func (b *StatsBroadcaster) Stop() {
	if b.cron != nil {
		b.cron.Stop()
	}
}

func (b *StatsBroadcaster) push() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// On failure Dashboard already logged and returned the zeroed metrics;
	// push those so open dashboards fall back to their no-data state.
	stats, _ := b.stats.Dashboard(ctx, time.Now().UTC())
	b.hub.BroadcastAdmins(websocket.NewMessage("stats.update", stats))
}
