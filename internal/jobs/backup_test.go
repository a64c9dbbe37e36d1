package jobs

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inversiones-bot/internal/models"
	"inversiones-bot/internal/repository"
)

type captureNotifier struct {
	docs chan string
}

func (captureNotifier) Send(int64, string)         {}
func (captureNotifier) SendMarkdown(int64, string) {}
func (c captureNotifier) SendDocument(_ int64, name string, _ []byte, _ string) {
	c.docs <- name
}
func (captureNotifier) SendPhoto(int64, string, string) {}

func setupStore(t *testing.T) *repository.Store {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Investment{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return repository.NewStore(db)
}

func TestBackupExportsImmediatelyOnStart(t *testing.T) {
	store := setupStore(t)
	notifier := captureNotifier{docs: make(chan string, 1)}

	job := NewBackup(store, notifier, 99, time.Hour)
	go job.Start()
	defer job.Stop()

	select {
	case name := <-notifier.docs:
		if !strings.HasPrefix(name, "inversionesct_backup_") || !strings.HasSuffix(name, ".zip") {
			t.Errorf("unexpected archive name %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected an export at startup, before the first tick")
	}
}
