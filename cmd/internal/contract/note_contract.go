package contract

import (
	"bytes"
	"encoding/json"
)

type NoteResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	CategoryID    *int64  `json:"category_id"`
	CategoryName  *string `json:"category_name"`
	CategoryTheme *string `json:"category_theme"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type CreateNoteRequest struct {
	Title      string `json:"title" validate:"max=255"`
	Content    string `json:"content"`
	CategoryID *int64 `json:"category_id" validate:"omitnil,gt=0"`
}

type UpdateNoteRequest struct {
	Title      *string    `json:"title" validate:"omitnil,max=255"`
	Content    *string    `json:"content"`
	CategoryID OptionalID `json:"category_id"`
}

type BulkMoveRequest struct {
	NoteIDs          []int64 `json:"note_ids" validate:"required"`
	TargetCategoryID int64   `json:"target_category_id" validate:"required,gt=0"`
}

type BulkMoveResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// OptionalID tells an absent JSON field apart from an explicit null.
// Set is true whenever the field was present in the payload.
type OptionalID struct {
	Set   bool
	Value *int64
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}
