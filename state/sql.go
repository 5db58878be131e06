package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type panelRow struct {
	PanelKey       string `gorm:"primaryKey;size:255"`
	ActivePresetID string `gorm:"size:64"`
	UpdatedAt      time.Time
}

func (panelRow) TableName() string { return "tweakpine_panels" }

type presetRow struct {
	PanelKey string                 `gorm:"primaryKey;size:255"`
	ID       string                 `gorm:"primaryKey;size:64"`
	Name     string                 `gorm:"size:255"`
	Position int                    `gorm:"index"`
	Values   map[string]interface{} `gorm:"serializer:json"`
}

func (presetRow) TableName() string { return "tweakpine_presets" }

// SQLBackend stores panel records in a relational database through gorm.
type SQLBackend struct {
	db     *gorm.DB
	logger *logrus.Entry
}

// OpenSQLite opens (or creates) a SQLite database at dsn and migrates the
// preset tables.
func OpenSQLite(dsn string, log *logrus.Entry) (*SQLBackend, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DSN is required")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: &gormLogAdapter{logger: log},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewSQLBackend(db, log)
}

// NewSQLBackend wraps an open gorm connection and migrates the preset tables.
func NewSQLBackend(db *gorm.DB, log *logrus.Entry) (*SQLBackend, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if err := db.AutoMigrate(&panelRow{}, &presetRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate preset tables: %w", err)
	}
	return &SQLBackend{db: db, logger: log}, nil
}

func (b *SQLBackend) Load(key string) (PanelRecord, error) {
	var panel panelRow
	err := b.db.Where("panel_key = ?", key).First(&panel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PanelRecord{}, nil
	}
	if err != nil {
		return PanelRecord{}, fmt.Errorf("load panel record: %w", err)
	}

	var rows []presetRow
	if err := b.db.Where("panel_key = ?", key).Order("position").Find(&rows).Error; err != nil {
		return PanelRecord{}, fmt.Errorf("load presets: %w", err)
	}

	record := PanelRecord{ActivePresetID: panel.ActivePresetID}
	for _, r := range rows {
		record.Presets = append(record.Presets, PresetRecord{ID: r.ID, Name: r.Name, Values: r.Values})
	}
	return record, nil
}

func (b *SQLBackend) Save(key string, record PanelRecord) error {
	err := b.db.Transaction(func(tx *gorm.DB) error {
		panel := panelRow{PanelKey: key, ActivePresetID: record.ActivePresetID}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&panel).Error; err != nil {
			return err
		}
		if err := tx.Where("panel_key = ?", key).Delete(&presetRow{}).Error; err != nil {
			return err
		}
		if len(record.Presets) == 0 {
			return nil
		}
		rows := make([]presetRow, len(record.Presets))
		for i, p := range record.Presets {
			rows[i] = presetRow{PanelKey: key, ID: p.ID, Name: p.Name, Position: i, Values: p.Values}
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("save panel record: %w", err)
	}
	b.logger.WithFields(logrus.Fields{"key": key, "presets": len(record.Presets)}).Debug("Saved preset record")
	return nil
}

// Keys lists the panel names with a stored record.
func (b *SQLBackend) Keys() ([]string, error) {
	var keys []string
	if err := b.db.Model(&panelRow{}).Order("panel_key").Pluck("panel_key", &keys).Error; err != nil {
		return nil, fmt.Errorf("list panel records: %w", err)
	}
	return keys, nil
}

// Close closes the database connection.
func (b *SQLBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// gormLogAdapter routes gorm's logging into logrus.
type gormLogAdapter struct {
	logger *logrus.Entry
}

func (l *gormLogAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

func (l *gormLogAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	l.logger.Infof(msg, data...)
}

func (l *gormLogAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.logger.Warnf(msg, data...)
}

func (l *gormLogAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	l.logger.Errorf(msg, data...)
}

func (l *gormLogAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	sql, rows := fc()
	fields := logrus.Fields{
		"sql":      sql,
		"rows":     rows,
		"duration": time.Since(begin),
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.logger.WithFields(fields).WithError(err).Warn("Database query failed")
		return
	}
	l.logger.WithFields(fields).Trace("Database query")
}
