package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"factory-chatbot-backend/internal/model"
)

var (
	// ErrUnavailable marks failures to reach the database at all, as opposed
	// to a query that ran and failed.
	ErrUnavailable = errors.New("data store unavailable")
	// ErrNotFound is returned by lookups of a single row that does not exist.
	ErrNotFound = errors.New("not found")
)

// Querier is the read-only view of the factory tables available inside a Session.
// All calls made through one Querier share a single connection.
type Querier interface {
	// ProductionOn returns every production row dated day, by line.
	ProductionOn(day time.Time) ([]LineOutput, error)
	// DowntimeAbove returns production rows dated day whose downtime exceeds minutes.
	DowntimeAbove(day time.Time, minutes int) ([]LineOutput, error)
	// MaintenanceDue returns machines in Maintenance status or with a schedule
	// row dated on or before day. One row per joined schedule row.
	MaintenanceDue(day time.Time) ([]MaintenanceRow, error)
	// RecentLineProduction returns the newest production rows of a line, newest first.
	RecentLineProduction(lineID, limit int) ([]LineDowntime, error)
	// Machines returns every machine ordered by id.
	Machines() ([]model.Machine, error)
	// DailyTotals returns the last days distinct dates, oldest first.
	DailyTotals(days int) ([]DailyTotal, error)
	// DowntimeIncidents returns the newest downtime incidents of a line.
	DowntimeIncidents(lineID, limit int) ([]model.DowntimeIncident, error)
}

// Store defines the interface for all database operations.
type Store interface {
	// Session runs fn on a dedicated pooled connection and releases it on
	// every return path. Connectivity failures wrap ErrUnavailable.
	Session(ctx context.Context, fn func(q Querier) error) error
	Ping(ctx context.Context) error

	SaveSubscription(ctx context.Context, sub model.PushSubscription, lineIDs []int) error
	FindSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForLine(ctx context.Context, lineID int) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Ping checks that the pool can reach the database.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *gormStore) Session(ctx context.Context, fn func(q Querier) error) error {
	if err := s.Ping(ctx); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		// NewDB gives every query a fresh statement on the same connection.
		return fn(&gormQuerier{db: conn.Session(&gorm.Session{NewDB: true})})
	})
	return classify(err)
}

// classify tags errors that mean the database could not be reached.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &connectErr),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

type gormQuerier struct {
	db *gorm.DB
}

func (q *gormQuerier) ProductionOn(day time.Time) ([]LineOutput, error) {
	var rows []LineOutput
	err := q.db.Model(&model.ProductionRecord{}).
		Select("line_id, date, shift, output_units, downtime_minutes").
		Where("date = ?", model.Day(day)).
		Order("line_id, production_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query production for %s: %w", model.FormatDate(day), err)
	}
	return rows, nil
}

func (q *gormQuerier) DowntimeAbove(day time.Time, minutes int) ([]LineOutput, error) {
	var rows []LineOutput
	err := q.db.Model(&model.ProductionRecord{}).
		Select("line_id, date, shift, output_units, downtime_minutes").
		Where("downtime_minutes > ? AND date = ?", minutes, model.Day(day)).
		Order("line_id, production_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query downtime above %d minutes: %w", minutes, err)
	}
	return rows, nil
}

func (q *gormQuerier) MaintenanceDue(day time.Time) ([]MaintenanceRow, error) {
	var rows []MaintenanceRow
	err := q.db.Table("machines AS m").
		Select("m.machine_id, m.name, m.status, mt.schedule_date, mt.remarks").
		Joins("LEFT JOIN maintenance mt ON m.machine_id = mt.machine_id").
		Where("m.status = ? OR mt.schedule_date <= ?", model.MachineMaintenance, model.Day(day)).
		Order("m.machine_id, mt.schedule_date, mt.maintenance_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query maintenance schedule: %w", err)
	}
	return rows, nil
}

func (q *gormQuerier) RecentLineProduction(lineID, limit int) ([]LineDowntime, error) {
	var rows []LineDowntime
	err := q.db.Model(&model.ProductionRecord{}).
		Select("date, downtime_minutes").
		Where("line_id = ?", lineID).
		Order("date DESC, production_id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query downtime for line %d: %w", lineID, err)
	}
	return rows, nil
}

func (q *gormQuerier) Machines() ([]model.Machine, error) {
	var machines []model.Machine
	if err := q.db.Order("machine_id").Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("failed to query machines: %w", err)
	}
	return machines, nil
}

func (q *gormQuerier) DailyTotals(days int) ([]DailyTotal, error) {
	var rows []DailyTotal
	err := q.db.Model(&model.ProductionRecord{}).
		Select("date, SUM(output_units) AS total_output, SUM(downtime_minutes) AS total_downtime").
		Group("date").
		Order("date DESC").
		Limit(days).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily totals: %w", err)
	}

	// Newest first from the query, oldest first for plotting.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

func (q *gormQuerier) DowntimeIncidents(lineID, limit int) ([]model.DowntimeIncident, error) {
	var incidents []model.DowntimeIncident
	err := q.db.Where("line_id = ?", lineID).
		Order("start_time DESC").
		Limit(limit).
		Find(&incidents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query downtime incidents for line %d: %w", lineID, err)
	}
	return incidents, nil
}

// SaveSubscription creates or replaces a push subscription and the set of
// lines it follows.
func (s *gormStore) SaveSubscription(ctx context.Context, sub model.PushSubscription, lineIDs []int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub.Lines = nil
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}

		if err := tx.Where("endpoint = ?", sub.Endpoint).Delete(&model.SubscriptionLine{}).Error; err != nil {
			return fmt.Errorf("failed to clear subscribed lines: %w", err)
		}

		if len(lineIDs) == 0 {
			return nil
		}
		seen := make(map[int]bool, len(lineIDs))
		lines := make([]model.SubscriptionLine, 0, len(lineIDs))
		for _, id := range lineIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			lines = append(lines, model.SubscriptionLine{Endpoint: sub.Endpoint, LineID: id})
		}
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("failed to save subscribed lines: %w", err)
		}
		return nil
	})
	return classify(err)
}

func (s *gormStore) FindSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Lines").First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return &sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("endpoint = ?", endpoint).Delete(&model.SubscriptionLine{}).Error; err != nil {
			return err
		}
		return tx.Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{}).Error
	})
	if err != nil {
		return classify(fmt.Errorf("failed to delete subscription: %w", err))
	}
	return nil
}

func (s *gormStore) SubscriptionsForLine(ctx context.Context, lineID int) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_lines sl ON sl.endpoint = push_subscriptions.endpoint").
		Where("sl.line_id = ?", lineID).
		Find(&subs).Error
	if err != nil {
		return nil, classify(fmt.Errorf("failed to fetch subscriptions for line %d: %w", lineID, err))
	}
	return subs, nil
}
