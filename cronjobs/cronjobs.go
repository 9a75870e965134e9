package cronjobs

import (
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"pincrime/db"
)

// InitCronJobs starts the upload retention sweep. Nothing here touches the
// analysis pipeline; uploads are a write-only side channel.
func InitCronJobs(store *db.Store, retentionDays int) {
	if retentionDays <= 0 {
		log.Println("Upload retention disabled, keeping uploads forever")
		return
	}

	log.Println("Starting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	// Retention sweep: run nightly at 03:00
	_, err := c.AddFunc("0 3 * * *", func() {
		log.Println("CronJob: Upload Retention Sweep Running")
		SweepUploads(store, retentionDays)
	})
	if err != nil {
		log.Println("Error scheduling upload retention sweep:", err)
	}

	c.Start()
}

// SweepUploads deletes audit rows and stored files older than the retention
// window.
func SweepUploads(store *db.Store, retentionDays int) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	paths, err := store.PruneUploads(cutoff)
	if err != nil {
		log.Println("Error pruning expired uploads:", err)
		return
	}

	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Error removing expired upload %s: %v", p, err)
			}
			continue
		}
		removed++
	}
	log.Printf("Retention sweep pruned %d upload records, removed %d files", len(paths), removed)
}
