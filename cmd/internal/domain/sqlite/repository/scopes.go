package repository

import (
	"errors"

	"notetaker/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

const (
	categoriesTable = "categories"
	notesTable      = "notes"
)

var (
	// ErrCategoryNotFound means the category acted upon is missing or owned by someone else.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrTargetNotFound means the destination category of a move is missing or owned by someone else.
	ErrTargetNotFound = errors.New("target category not found")
	// ErrSameCategory means a move was asked to land on its own source.
	ErrSameCategory = errors.New("target category is the source category")
	// ErrEmailTaken means another account already registered the email.
	ErrEmailTaken = errors.New("email already registered")
)

// OwnedBy restricts a query on 'table' to rows owned by 'ownerID'.
// Every read and write in this package goes through it before any other filter.
func OwnedBy(table string, ownerID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".user_id = ?", ownerID)
	}
}

// findOwnedCategory loads a category inside the caller's scope, nil if it doesn't exist there.
func findOwnedCategory(db *gorm.DB, ownerID, id int64) (*entity.Category, error) {
	var category entity.Category
	err := db.Scopes(OwnedBy(categoriesTable, ownerID)).
		Where("categories.id = ?", id).
		First(&category).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &category, nil
}
