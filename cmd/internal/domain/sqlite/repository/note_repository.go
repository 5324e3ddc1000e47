package repository

import (
	"errors"
	"slices"

	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bulkMoveChunkSize keeps each UPDATE below SQLite's bound-variable limit (32766).
var bulkMoveChunkSize = 10000

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

// FindAllByOwner lists the owner's notes, most recently touched first.
// When 'categoryID' is not nil only the notes linked to it are returned.
// The linked category is joined in the same query.
func (d *DefaultNoteRepository) FindAllByOwner(ownerID int64, categoryID *int64) ([]*entity.Note, error) {
	query := d.db.
		Joins("Category").
		Scopes(OwnedBy(notesTable, ownerID))

	if categoryID != nil {
		query = query.Where("notes.category_id = ?", *categoryID)
	}

	var notes []*entity.Note
	err := query.
		Order("notes.updated_at DESC, notes.id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) FindByID(ownerID, id int64) (*entity.Note, error) {
	var note entity.Note
	err := d.db.
		Joins("Category").
		Scopes(OwnedBy(notesTable, ownerID)).
		Where("notes.id = ?", id).
		First(&note).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (d *DefaultNoteRepository) Save(note *entity.Note) error {
	return d.db.Omit(clause.Associations).Save(note).Error
}

func (d *DefaultNoteRepository) Delete(note *entity.Note) error {
	return d.db.
		Scopes(OwnedBy(notesTable, note.UserID)).
		Delete(&entity.Note{}, note.ID).Error
}

// BulkMove links every note in 'noteIDs' that belongs to the owner to 'targetID' in one transaction.
// The UPDATE runs in chunks of bulkMoveChunkSize ids; a failing chunk rolls back the whole move.
// IDs of other users' notes (or of no note at all) are skipped silently.
// It returns the target category and the number of notes actually updated.
func (d *DefaultNoteRepository) BulkMove(ownerID int64, noteIDs []int64, targetID int64) (*entity.Category, int64, error) {
	var (
		target  *entity.Category
		updated int64
	)

	err := d.db.Transaction(func(tx *gorm.DB) error {
		var err error
		target, err = findOwnedCategory(tx, ownerID, targetID)
		if err != nil {
			return err
		}

		if target == nil {
			return ErrTargetNotFound
		}

		if len(noteIDs) == 0 {
			return nil
		}

		// Duplicates would be counted once per chunk they land in
		ids := slices.Clone(noteIDs)
		slices.Sort(ids)
		ids = slices.Compact(ids)

		now := utils.NowUTC()
		for chunk := range slices.Chunk(ids, bulkMoveChunkSize) {
			res := tx.Model(&entity.Note{}).
				Scopes(OwnedBy(notesTable, ownerID)).
				Where("notes.id IN ?", chunk).
				Updates(map[string]any{"category_id": target.ID, "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			updated += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return target, updated, nil
}
