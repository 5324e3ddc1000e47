package service

import (
	"errors"

	"notetaker/cmd/internal/contract"
	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/domain/policy"
	"notetaker/cmd/internal/domain/sqlite/repository"
	"notetaker/cmd/internal/metrics"
	"notetaker/cmd/internal/utils"
	"notetaker/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const (
	actionDeleteWithNotes = "delete_with_notes"
	actionMoveAndDelete   = "move_notes_and_delete"
)

type CategoryRepository interface {
	FindAllByOwner(ownerID int64) ([]*entity.Category, error)
	FindByID(ownerID, id int64) (*entity.Category, error)
	FindRefByID(ownerID, id int64) (*entity.Category, error)
	Save(category *entity.Category) error
	Delete(category *entity.Category) error
	DeleteWithNotes(ownerID, id int64) (int64, error)
	MoveNotesAndDelete(ownerID, sourceID, targetID int64) (int64, error)
}

type DefaultCategoryService struct {
	CategoryRepo CategoryRepository
	Policy       *policy.OwnershipPolicy
	Validate     *validator.Validate
}

func NewCategoryService(categoryRepo CategoryRepository, ownership *policy.OwnershipPolicy, validate *validator.Validate) *DefaultCategoryService {
	return &DefaultCategoryService{
		CategoryRepo: categoryRepo,
		Policy:       ownership,
		Validate:     validate,
	}
}

func (s *DefaultCategoryService) GetCategories(actor *entity.User) ([]*contract.CategoryResponse, apierror.ErrorResponse) {
	categories, err := s.CategoryRepo.FindAllByOwner(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch categories of user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}
	return resp, nil
}

func (s *DefaultCategoryService) GetCategoryByID(actor *entity.User, id int64) (*contract.CategoryResponse, apierror.ErrorResponse) {
	category, apierr := s.fetchCategory(actor, id)
	if apierr != nil {
		return nil, apierr
	}
	return toCategoryResponse(category), nil
}

func (s *DefaultCategoryService) CreateCategory(actor *entity.User, req *contract.CreateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	theme := entity.DefaultTheme
	if req.Theme != "" {
		theme = entity.Theme(req.Theme)
	}

	now := utils.NowUTC()
	category := &entity.Category{
		UserID:    actor.ID,
		Name:      req.Name,
		Theme:     theme,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.CategoryRepo.Save(category); err != nil {
		log.Errorf("failed to create category for user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}
	return toCategoryResponse(category), nil
}

func (s *DefaultCategoryService) UpdateCategory(actor *entity.User, id int64, req *contract.UpdateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	category, apierr := s.fetchCategory(actor, id)
	if apierr != nil {
		return nil, apierr
	}

	dirty := false
	if req.Name != nil && *req.Name != category.Name {
		category.Name = *req.Name
		dirty = true
	}
	if req.Theme != nil && entity.Theme(*req.Theme) != category.Theme {
		category.Theme = entity.Theme(*req.Theme)
		dirty = true
	}

	if dirty {
		category.UpdatedAt = utils.NowUTC()
		if err := s.CategoryRepo.Save(category); err != nil {
			log.Errorf("failed to update category %d: %v", category.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toCategoryResponse(category), nil
}

// DeleteCategory removes the category only, its notes stay around uncategorized.
func (s *DefaultCategoryService) DeleteCategory(actor *entity.User, id int64) apierror.ErrorResponse {
	category, apierr := s.fetchCategory(actor, id)
	if apierr != nil {
		return apierr
	}

	if err := s.CategoryRepo.Delete(category); err != nil {
		log.Errorf("failed to delete category %d: %v", category.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *DefaultCategoryService) DeleteWithNotes(actor *entity.User, id int64) apierror.ErrorResponse {
	removed, err := s.CategoryRepo.DeleteWithNotes(actor.ID, id)
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		metrics.ObserveAction(actionDeleteWithNotes, metrics.ResultInvalid)
		return apierror.NotFoundError

	case err != nil:
		metrics.ObserveAction(actionDeleteWithNotes, metrics.ResultFailed)
		log.Errorf("failed to delete category %d with its notes (user %d): %v", id, actor.ID, err)
		return apierror.ActionFailedError
	}

	metrics.ObserveAction(actionDeleteWithNotes, metrics.ResultOK)
	log.Debugf("user %d deleted category %d along with %d notes", actor.ID, id, removed)
	return nil
}

func (s *DefaultCategoryService) MoveNotesAndDelete(actor *entity.User, id int64, req *contract.MoveNotesRequest) apierror.ErrorResponse {
	// The source is resolved first so a stranger's category is a 404 regardless of the body.
	if _, apierr := s.fetchCategory(actor, id); apierr != nil {
		return apierr
	}

	if req.TargetCategoryID == nil || *req.TargetCategoryID == 0 {
		metrics.ObserveAction(actionMoveAndDelete, metrics.ResultInvalid)
		return apierror.MissingTargetCategoryError
	}

	moved, err := s.CategoryRepo.MoveNotesAndDelete(actor.ID, id, *req.TargetCategoryID)
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		metrics.ObserveAction(actionMoveAndDelete, metrics.ResultInvalid)
		return apierror.NotFoundError

	case errors.Is(err, repository.ErrTargetNotFound):
		metrics.ObserveAction(actionMoveAndDelete, metrics.ResultInvalid)
		return apierror.TargetCategoryNotFoundError

	case errors.Is(err, repository.ErrSameCategory):
		metrics.ObserveAction(actionMoveAndDelete, metrics.ResultInvalid)
		return apierror.NewFieldError("target_category_id", "Target category must differ from the deleted category.")

	case err != nil:
		metrics.ObserveAction(actionMoveAndDelete, metrics.ResultFailed)
		log.Errorf("failed to move notes of category %d to %d (user %d): %v", id, *req.TargetCategoryID, actor.ID, err)
		return apierror.ActionFailedError
	}

	metrics.ObserveAction(actionMoveAndDelete, metrics.ResultOK)
	log.Debugf("user %d moved %d notes from category %d to %d", actor.ID, moved, id, *req.TargetCategoryID)
	return nil
}

func (s *DefaultCategoryService) fetchCategory(actor *entity.User, id int64) (*entity.Category, apierror.ErrorResponse) {
	category, err := s.CategoryRepo.FindByID(actor.ID, id)
	if err != nil {
		log.Errorf("failed to fetch category %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if apierr := s.Policy.CanAccessCategory(category, actor); apierr != nil {
		return nil, apierr
	}
	return category, nil
}

func toCategoryResponse(c *entity.Category) *contract.CategoryResponse {
	return &contract.CategoryResponse{
		ID:         c.ID,
		Name:       c.Name,
		Theme:      string(c.Theme),
		NotesCount: c.NotesCount,
		CreatedAt:  utils.FormatEpoch(c.CreatedAt),
		UpdatedAt:  utils.FormatEpoch(c.UpdatedAt),
	}
}
