package repository

import (
	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *DefaultCategoryRepository {
	return &DefaultCategoryRepository{db: db}
}

// FindAllByOwner lists the owner's categories oldest first, with their live note counts.
func (r *DefaultCategoryRepository) FindAllByOwner(ownerID int64) ([]*entity.Category, error) {
	var categories []*entity.Category
	err := r.db.
		Scopes(OwnedBy(categoriesTable, ownerID)).
		Order("categories.created_at ASC, categories.id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	if err = r.fillNotesCount(ownerID, categories...); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *DefaultCategoryRepository) FindByID(ownerID, id int64) (*entity.Category, error) {
	category, err := findOwnedCategory(r.db, ownerID, id)
	if err != nil || category == nil {
		return nil, err
	}

	if err = r.fillNotesCount(ownerID, category); err != nil {
		return nil, err
	}
	return category, nil
}

// FindRefByID loads the bare category, skipping the notes count.
// Meant for callers that only link to it.
func (r *DefaultCategoryRepository) FindRefByID(ownerID, id int64) (*entity.Category, error) {
	return findOwnedCategory(r.db, ownerID, id)
}

func (r *DefaultCategoryRepository) Save(category *entity.Category) error {
	return r.db.Omit(clause.Associations).Save(category).Error
}

// Delete removes the category and unlinks (never deletes) the notes pointing at it.
func (r *DefaultCategoryRepository) Delete(category *entity.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.Note{}).
			Scopes(OwnedBy(notesTable, category.UserID)).
			Where("notes.category_id = ?", category.ID).
			Updates(map[string]any{"category_id": nil, "updated_at": utils.NowUTC()}).Error
		if err != nil {
			return err
		}

		return tx.Scopes(OwnedBy(categoriesTable, category.UserID)).
			Delete(&entity.Category{}, category.ID).Error
	})
}

// DeleteWithNotes removes the category along with every note linked to it.
// It returns how many notes were removed.
func (r *DefaultCategoryRepository) DeleteWithNotes(ownerID, id int64) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		category, err := findOwnedCategory(tx, ownerID, id)
		if err != nil {
			return err
		}

		if category == nil {
			return ErrCategoryNotFound
		}

		res := tx.Scopes(OwnedBy(notesTable, ownerID)).
			Where("notes.category_id = ?", category.ID).
			Delete(&entity.Note{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		return tx.Scopes(OwnedBy(categoriesTable, ownerID)).
			Delete(&entity.Category{}, category.ID).Error
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// MoveNotesAndDelete relinks every note of 'sourceID' to 'targetID' and then removes
// the source category. Nothing is written unless both categories belong to the owner.
// It returns how many notes were moved.
func (r *DefaultCategoryRepository) MoveNotesAndDelete(ownerID, sourceID, targetID int64) (int64, error) {
	var moved int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		source, err := findOwnedCategory(tx, ownerID, sourceID)
		if err != nil {
			return err
		}

		if source == nil {
			return ErrCategoryNotFound
		}

		target, err := findOwnedCategory(tx, ownerID, targetID)
		if err != nil {
			return err
		}

		if target == nil {
			return ErrTargetNotFound
		}

		if target.ID == source.ID {
			return ErrSameCategory
		}

		res := tx.Model(&entity.Note{}).
			Scopes(OwnedBy(notesTable, ownerID)).
			Where("notes.category_id = ?", source.ID).
			Updates(map[string]any{"category_id": target.ID, "updated_at": utils.NowUTC()})
		if res.Error != nil {
			return res.Error
		}
		moved = res.RowsAffected

		return tx.Scopes(OwnedBy(categoriesTable, ownerID)).
			Delete(&entity.Category{}, source.ID).Error
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

type notesCountRow struct {
	CategoryID int64
	Total      int64
}

// fillNotesCount annotates the given categories with one grouped query.
func (r *DefaultCategoryRepository) fillNotesCount(ownerID int64, categories ...*entity.Category) error {
	if len(categories) == 0 {
		return nil
	}

	ids := make([]int64, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}

	var rows []notesCountRow
	err := r.db.Model(&entity.Note{}).
		Scopes(OwnedBy(notesTable, ownerID)).
		Select("notes.category_id AS category_id, COUNT(*) AS total").
		Where("notes.category_id IN ?", ids).
		Group("notes.category_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}

	for _, c := range categories {
		c.NotesCount = counts[c.ID]
	}
	return nil
}
