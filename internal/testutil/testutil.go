// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/safari_vendors/internal/db"
	"github.com/Skotchmaster/safari_vendors/internal/models"
)

const MemoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// NewDB opens a private in-memory sqlite database with the full schema applied.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.Options{
		Driver:   db.DriverSQLite,
		DSN:      MemoryDSN,
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func CreateBuyer(t testing.TB, gdb *gorm.DB, username string) *models.Buyer {
	t.Helper()
	b := &models.Buyer{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(b).Error)
	return b
}

func CreateVendor(t testing.TB, gdb *gorm.DB, username string) *models.Vendor {
	t.Helper()
	v := &models.Vendor{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(v).Error)
	return v
}

// CreateProduct inserts a product and lists it under the given vendors.
func CreateProduct(t testing.TB, gdb *gorm.DB, name, price string, vendorIDs ...uint) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Category: "General", Price: decimal.RequireFromString(price)}
	require.NoError(t, gdb.Create(p).Error)
	for _, vid := range vendorIDs {
		require.NoError(t, gdb.Create(&models.VendorProduct{VendorID: vid, ProductID: p.ID}).Error)
	}
	return p
}
