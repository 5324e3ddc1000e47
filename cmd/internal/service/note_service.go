package service

import (
	"errors"
	"fmt"
	"strings"

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

const actionBulkMove = "bulk_move"

type NoteRepository interface {
	FindAllByOwner(ownerID int64, categoryID *int64) ([]*entity.Note, error)
	FindByID(ownerID, id int64) (*entity.Note, error)
	Save(note *entity.Note) error
	Delete(note *entity.Note) error
	BulkMove(ownerID int64, noteIDs []int64, targetID int64) (*entity.Category, int64, error)
}

type DefaultNoteService struct {
	NoteRepo     NoteRepository
	CategoryRepo CategoryRepository
	Policy       *policy.OwnershipPolicy
	Validate     *validator.Validate
}

func NewNoteService(
	noteRepo NoteRepository,
	categoryRepo CategoryRepository,
	ownership *policy.OwnershipPolicy,
	validate *validator.Validate,
) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo:     noteRepo,
		CategoryRepo: categoryRepo,
		Policy:       ownership,
		Validate:     validate,
	}
}

// GetNotes lists the actor's notes, optionally only those linked to 'categoryID'.
func (n *DefaultNoteService) GetNotes(actor *entity.User, categoryID *int64) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	notes, err := n.NoteRepo.FindAllByOwner(actor.ID, categoryID)
	if err != nil {
		log.Errorf("failed to fetch notes of user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	return resp, nil
}

func (n *DefaultNoteService) GetNoteByID(actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchNote(actor, noteID)
	if apierr != nil {
		return nil, apierr
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) CreateNote(actor *entity.User, req *contract.CreateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	// Only the title is trimmed; content is stored verbatim
	req.Title = strings.TrimSpace(req.Title)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := utils.NowUTC()
	note := &entity.Note{
		UserID:    actor.ID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.CategoryID != nil {
		category, apierr := n.resolveLink(actor, *req.CategoryID)
		if apierr != nil {
			return nil, apierr
		}
		note.CategoryID = &category.ID
		note.Category = category
	}

	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to save note for user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) UpdateNote(actor *entity.User, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}

	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, apierr := n.fetchNote(actor, noteID)
	if apierr != nil {
		return nil, apierr
	}

	updater := &noteUpdater{
		note: note,
		resolve: func(categoryID int64) (*entity.Category, apierror.ErrorResponse) {
			return n.resolveLink(actor, categoryID)
		},
	}

	updater.setString(req.Title, &note.Title)
	updater.setString(req.Content, &note.Content)
	updater.setCategory(req.CategoryID)

	if updater.err != nil {
		return nil, updater.err
	}

	if updater.dirty {
		note.UpdatedAt = utils.NowUTC()
		if err := n.NoteRepo.Save(note); err != nil {
			log.Errorf("failed to update note %d: %v", note.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) DeleteNote(actor *entity.User, noteID int64) apierror.ErrorResponse {
	note, apierr := n.fetchNote(actor, noteID)
	if apierr != nil {
		return apierr
	}

	if err := n.NoteRepo.Delete(note); err != nil {
		log.Errorf("failed to delete note %d: %v", note.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

// BulkMove relinks the actor's notes among 'NoteIDs' to the target category.
// IDs that do not belong to the actor are ignored and not counted.
func (n *DefaultNoteService) BulkMove(actor *entity.User, req *contract.BulkMoveRequest) (*contract.BulkMoveResponse, apierror.ErrorResponse) {
	if valerr := n.Validate.Struct(req); valerr != nil {
		metrics.ObserveAction(actionBulkMove, metrics.ResultInvalid)
		return nil, apierror.FromValidationError(valerr)
	}

	target, updated, err := n.NoteRepo.BulkMove(actor.ID, req.NoteIDs, req.TargetCategoryID)
	switch {
	case errors.Is(err, repository.ErrTargetNotFound):
		metrics.ObserveAction(actionBulkMove, metrics.ResultInvalid)
		return nil, apierror.TargetCategoryNotFoundError

	case err != nil:
		metrics.ObserveAction(actionBulkMove, metrics.ResultFailed)
		log.Errorf("failed to bulk move %d notes to category %d (user %d): %v",
			len(req.NoteIDs), req.TargetCategoryID, actor.ID, err)
		return nil, apierror.ActionFailedError
	}

	metrics.ObserveAction(actionBulkMove, metrics.ResultOK)
	return &contract.BulkMoveResponse{
		Message: fmt.Sprintf("Moved %d notes to %s", updated, target.Name),
		Updated: updated,
	}, nil
}

func (n *DefaultNoteService) fetchNote(actor *entity.User, noteID int64) (*entity.Note, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(actor.ID, noteID)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	if apierr := n.Policy.CanAccessNote(note, actor); apierr != nil {
		return nil, apierr
	}
	return note, nil
}

// resolveLink loads the category a note is about to point at and checks it shares the note's owner.
func (n *DefaultNoteService) resolveLink(actor *entity.User, categoryID int64) (*entity.Category, apierror.ErrorResponse) {
	category, err := n.CategoryRepo.FindRefByID(actor.ID, categoryID)
	if err != nil {
		log.Errorf("failed to fetch category %d: %v", categoryID, err)
		return nil, apierror.InternalServerError
	}

	if apierr := n.Policy.CanLinkCategory(category, actor); apierr != nil {
		return nil, apierr
	}
	return category, nil
}

func toNoteResponse(note *entity.Note) *contract.NoteResponse {
	resp := &contract.NoteResponse{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		CategoryID: note.CategoryID,
		CreatedAt:  utils.FormatEpoch(note.CreatedAt),
		UpdatedAt:  utils.FormatEpoch(note.UpdatedAt),
	}

	if note.CategoryID != nil && note.Category != nil {
		name := note.Category.Name
		theme := string(note.Category.Theme)
		resp.CategoryName = &name
		resp.CategoryTheme = &theme
	}
	return resp
}
