package trending

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	tracker *Tracker
}

func NewScheduler(tracker *Tracker) *Scheduler {
	return &Scheduler{tracker: tracker}
}

// Start schedules the nightly prune of the trending window.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	// 3:00 AM
	_, err := c.AddFunc("0 0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.tracker.Prune(ctx); err != nil {
			log.Printf("trending prune failed: %v", err)
			return
		}
		log.Println("trending window pruned")
	})

	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (pruning trending nightly at 3:00AM)")
	c.Start()
}
