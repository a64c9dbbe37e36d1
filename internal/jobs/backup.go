package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"inversiones-bot/internal/export"
	"inversiones-bot/internal/notify"
	"inversiones-bot/internal/repository"
)

// Backup periodically exports the full store and delivers the archive to the
// administrator.
type Backup struct {
	store    *repository.Store
	notifier notify.Notifier
	adminID  int64
	interval time.Duration
	stopChan chan struct{}
}

// NewBackup creates a new backup job
func NewBackup(store *repository.Store, notifier notify.Notifier, adminID int64, interval time.Duration) *Backup {
	return &Backup{
		store:    store,
		notifier: notifier,
		adminID:  adminID,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the backup loop. Blocks; run it on its own goroutine.
func (b *Backup) Start() {
	log.Printf("[Backup] Starting backup job (interval: %v)", b.interval)

	// One export right away; the ticker covers the rest.
	b.run()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.run()
		case <-b.stopChan:
			log.Println("[Backup] Stopping backup job")
			return
		}
	}
}

// Stop stops the backup loop
func (b *Backup) Stop() {
	close(b.stopChan)
}

func (b *Backup) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	data, err := export.Archive(ctx, b.store)
	if err != nil {
		log.Printf("[Backup] Export failed: %v", err)
		b.notifier.Send(b.adminID, fmt.Sprintf("⚠️ Error en backup automático: %v", err))
		return
	}

	timestamp := time.Now().Format("20060102_1504")
	name := fmt.Sprintf("inversionesct_backup_%s.zip", timestamp)
	b.notifier.SendDocument(b.adminID, name, data, fmt.Sprintf("🔁 Backup automático - %s", timestamp))

	log.Printf("[Backup] Delivered %s (%d bytes)", name, len(data))
}
