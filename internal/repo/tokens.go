package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/safari_vendors/internal/models"
)

// RevokeToken records jti in the blocklist. Revoking an already revoked jti is a no-op.
func (r *GormRepo) RevokeToken(ctx context.Context, jti, tokenType string) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&models.RevokedToken{JTI: jti, TokenType: tokenType}).Error
}

// ConsumeToken revokes jti and fails with ErrDuplicate when it was already revoked,
// so only one caller can ever exchange a given refresh token.
func (r *GormRepo) ConsumeToken(ctx context.Context, jti, tokenType string) error {
	err := r.DB.WithContext(ctx).Create(&models.RevokedToken{JTI: jti, TokenType: tokenType}).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// IsTokenRevoked reports whether any of ids is on the blocklist. Empty ids are ignored.
func (r *GormRepo) IsTokenRevoked(ctx context.Context, ids ...string) (bool, error) {
	lookup := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			lookup = append(lookup, id)
		}
	}
	if len(lookup) == 0 {
		return false, nil
	}

	var count int64
	if err := r.DB.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("jti IN ?", lookup).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
