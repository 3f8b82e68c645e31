package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/safari_vendors/internal/models"
)

// CreateAccounts inserts the given buyer and/or vendor atomically. Either may be nil.
func (r *GormRepo) CreateAccounts(ctx context.Context, buyer *models.Buyer, vendor *models.Vendor) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if buyer != nil {
			if err := createAccount(tx, buyer, buyer.Email, buyer.Username, models.RoleBuyer); err != nil {
				return err
			}
		}
		if vendor != nil {
			if err := createAccount(tx, vendor, vendor.Email, vendor.Username, models.RoleVendor); err != nil {
				return err
			}
		}
		return nil
	})
}

func createAccount(tx *gorm.DB, account any, email, username, role string) error {
	for _, f := range []struct{ column, value string }{
		{"email", email},
		{"username", username},
	} {
		var count int64
		if err := tx.Model(account).Where(f.column+" = ?", f.value).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &DuplicateError{Role: role, Field: f.column}
		}
	}

	if err := tx.Create(account).Error; err != nil {
		if isUniqueViolation(err) {
			return &DuplicateError{Role: role, Field: violatedField(err)}
		}
		return err
	}
	return nil
}

// violatedField guesses the column from the driver message; email is the default.
func violatedField(err error) string {
	if strings.Contains(err.Error(), "username") {
		return "username"
	}
	return "email"
}

func (r *GormRepo) FindBuyerByEmail(ctx context.Context, email string) (*models.Buyer, error) {
	var buyer models.Buyer
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&buyer).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *GormRepo) FindVendorByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *GormRepo) GetBuyer(ctx context.Context, id uint) (*models.Buyer, error) {
	var buyer models.Buyer
	if err := r.DB.WithContext(ctx).First(&buyer, id).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *GormRepo) GetVendor(ctx context.Context, id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB.WithContext(ctx).First(&vendor, id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *GormRepo) VendorExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Vendor{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
