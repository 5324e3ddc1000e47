package repository

import (
	"notetaker/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultTokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *DefaultTokenRepository {
	return &DefaultTokenRepository{db: db}
}

// Blacklist stores the given tokens. Tokens that are already blacklisted are left as they are.
func (t *DefaultTokenRepository) Blacklist(tokens ...*entity.BlacklistedToken) error {
	if len(tokens) == 0 {
		return nil
	}

	return t.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tokens).Error
}

func (t *DefaultTokenRepository) IsBlacklisted(jti string) (bool, error) {
	var exists int
	err := t.db.
		Raw("SELECT EXISTS(SELECT 1 FROM blacklisted_tokens WHERE jti = ?)", jti).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

// DeleteExpired drops entries whose token expired before 'before' (epoch millis).
func (t *DefaultTokenRepository) DeleteExpired(before int64) (int64, error) {
	res := t.db.
		Where("expires_at < ?", before).
		Delete(&entity.BlacklistedToken{})
	return res.RowsAffected, res.Error
}
