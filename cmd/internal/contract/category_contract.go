package contract

type CategoryResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Theme      string `json:"theme_id"`
	NotesCount int64  `json:"notes_count"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Theme string `json:"theme_id" validate:"omitempty,theme"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=100"`
	Theme *string `json:"theme_id" validate:"omitnil,theme"`
}

type MoveNotesRequest struct {
	// Pointer so a missing field can be told apart from a bad one.
	TargetCategoryID *int64 `json:"target_category_id"`
}
