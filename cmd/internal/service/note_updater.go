package service

import (
	"notetaker/cmd/internal/contract"
	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/utils/apierror"
)

// noteUpdater acts as a "Change Set" for partial note updates.
// It keeps the first error and tracks if a save is actually needed.
type noteUpdater struct {
	note    *entity.Note
	resolve func(categoryID int64) (*entity.Category, apierror.ErrorResponse)

	// State
	err   apierror.ErrorResponse
	dirty bool
}

func (u *noteUpdater) setString(newVal *string, targetField *string) {
	if u.err != nil || newVal == nil {
		return
	}

	if *newVal == *targetField {
		return
	}

	*targetField = *newVal
	u.dirty = true
}

// setCategory links, relinks or (on explicit null) unlinks the note's category.
func (u *noteUpdater) setCategory(id contract.OptionalID) {
	if u.err != nil || !id.Set {
		return
	}

	if id.Value == nil {
		if u.note.CategoryID != nil {
			u.note.CategoryID = nil
			u.note.Category = nil
			u.dirty = true
		}
		return
	}

	if u.note.CategoryID != nil && *u.note.CategoryID == *id.Value {
		return
	}

	// The reference is re-checked every time it changes.
	category, apierr := u.resolve(*id.Value)
	if apierr != nil {
		u.err = apierr
		return
	}

	u.note.CategoryID = &category.ID
	u.note.Category = category
	u.dirty = true
}
