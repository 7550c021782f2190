package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vanotis720/SampleTaskAPI/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

var ErrNoConnection = errors.New("database connection is not initialized")

type PoolConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        logger.LogLevel
	SlowThreshold   time.Duration
}

func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		Driver:          DriverPostgres,
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		LogLevel:        logger.Info,
		SlowThreshold:   time.Second,
	}
}

type DatabasePool struct {
	DB     *gorm.DB
	config *PoolConfig
}

func NewDatabasePool(config *PoolConfig) (*DatabasePool, error) {
	if config == nil {
		config = DefaultPoolConfig()
	}
	if err := validatePoolConfig(config); err != nil {
		return nil, err
	}

	dialector, err := Dialector(config.Driver, config.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(config),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driverName(config.Driver), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	zap.L().Info("database pool ready",
		zap.String("driver", driverName(config.Driver)),
		zap.Int("max_open_conns", config.MaxOpenConns),
		zap.Int("max_idle_conns", config.MaxIdleConns),
	)

	return &DatabasePool{DB: db, config: config}, nil
}

// Dialector maps a configured driver name to its gorm dialector.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driverName(driver) {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func driverName(driver string) string {
	if driver == "" {
		return DriverPostgres
	}
	return driver
}

func validatePoolConfig(config *PoolConfig) error {
	if config.DSN == "" {
		return errors.New("database DSN is required")
	}
	if config.MaxOpenConns < 0 || config.MaxIdleConns < 0 {
		return errors.New("connection limits must not be negative")
	}
	if config.ConnMaxLifetime < 0 || config.ConnMaxIdleTime < 0 {
		return errors.New("connection lifetimes must not be negative")
	}
	return nil
}

func newGormLogger(config *PoolConfig) logger.Interface {
	threshold := config.SlowThreshold
	if threshold == 0 {
		threshold = time.Second
	}
	return logger.New(zap.NewStdLog(zap.L().Named("gorm")), logger.Config{
		SlowThreshold:             threshold,
		LogLevel:                  config.LogLevel,
		IgnoreRecordNotFoundError: true,
	})
}

func (p *DatabasePool) Stats() map[string]interface{} {
	if p.DB == nil {
		return map[string]interface{}{"error": ErrNoConnection.Error()}
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}

	stats := sqlDB.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}

func (p *DatabasePool) Health() error {
	return p.Ping(context.Background())
}

func (p *DatabasePool) Ping(ctx context.Context) error {
	if p.DB == nil {
		return ErrNoConnection
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (p *DatabasePool) Close() error {
	if p.DB == nil {
		return nil
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Category{},
		&models.Task{},
	)
}
