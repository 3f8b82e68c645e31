package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/safari_vendors/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	// Driver selects the gorm dialect: postgres or sqlite.
	Driver string
	// SQLDriver picks the database/sql driver under the postgres dialect: pgx or pq.
	SQLDriver string
	DSN       string
	LogLevel  logger.LogLevel
}

func configurePool(sqlDB *sql.DB, driver string) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	if driver == DriverSQLite {
		// in-memory sqlite databases live and die with a single connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func Dialector(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case DriverPostgres, "":
		if opts.SQLDriver == "pq" {
			return postgres.New(postgres.Config{DriverName: "postgres", DSN: opts.DSN}), nil
		}
		return postgres.Open(opts.DSN), nil
	case DriverSQLite:
		return sqlite.Open(opts.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", opts.Driver)
	}
}

func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	dialector, err := Dialector(opts)
	if err != nil {
		return nil, err
	}

	logLevel := opts.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    opts.Driver != DriverSQLite,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB, opts.Driver)

	if err := Ping(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	return nil
}

// Migrate creates or updates every table, including the custom join tables.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Vendor{}, "Products", &models.VendorProduct{}); err != nil {
		return fmt.Errorf("setup vendor_products: %w", err)
	}
	if err := db.SetupJoinTable(&models.Cart{}, "Products", &models.CartProduct{}); err != nil {
		return fmt.Errorf("setup cart_products: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Buyer{},
		&models.Vendor{},
		&models.Product{},
		&models.VendorProduct{},
		&models.Cart{},
		&models.CartProduct{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.RevokedToken{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Reset drops every table and recreates the schema.
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(
		&models.Review{},
		&models.OrderItem{},
		&models.Order{},
		&models.CartProduct{},
		&models.Cart{},
		&models.VendorProduct{},
		&models.RevokedToken{},
		&models.Product{},
		&models.Vendor{},
		&models.Buyer{},
	); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return Migrate(db)
}
