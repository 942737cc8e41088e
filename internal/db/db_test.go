package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"factory-chatbot-backend/config"
	"factory-chatbot-backend/internal/model"
)

func TestInit_SQLiteSeed(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}
	gormDB, err := Init(cfg, zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	today := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	summary, err := Seed(context.Background(), gormDB, today)
	require.NoError(t, err)

	assert.Equal(t, 8, summary.Machines)
	assert.Equal(t, 60, summary.Production)
	assert.Equal(t, 10, summary.Maintenance)
	assert.Equal(t, 10, summary.Downtime)
	assert.Equal(t, "2026-10-06", model.FormatDate(summary.From))
	assert.Equal(t, "2026-11-05", model.FormatDate(summary.To))

	var count int64
	gormDB.Model(&model.ProductionRecord{}).Where("date = ?", model.Day(today)).Count(&count)
	assert.Equal(t, int64(6), count, "two lines times three shifts for today")

	// Seeding twice replaces rather than duplicates.
	_, err = Seed(context.Background(), gormDB, today)
	require.NoError(t, err)
	gormDB.Model(&model.Machine{}).Count(&count)
	assert.Equal(t, int64(8), count)
	gormDB.Model(&model.ProductionRecord{}).Count(&count)
	assert.Equal(t, int64(60), count)
}

func TestInit_ReopensExistingFile(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + filepath.Join(t.TempDir(), "factory.db"),
	}
	first, err := Init(cfg, zap.NewNop())
	require.NoError(t, err)
	_, err = Seed(context.Background(), first, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	sqlDB, _ := first.DB()
	require.NoError(t, sqlDB.Close())

	// The second run migrates against the schema the first one created.
	second, err := Init(cfg, zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ = second.DB()
	defer sqlDB.Close()

	var entry model.MaintenanceEntry
	require.NoError(t, second.Order("maintenance_id").First(&entry).Error)
	assert.NotZero(t, entry.MachineID)
}

func TestInit_UnsupportedDriver(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}
