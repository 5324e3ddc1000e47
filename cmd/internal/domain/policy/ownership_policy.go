package policy

import (
	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

const invalidCategory = "Invalid category."

// OwnershipPolicy enforces that users only ever reach their own categories and notes.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
//
// A resource owned by someone else is reported exactly like a missing one,
// so its existence never leaks across accounts.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

func (p *OwnershipPolicy) CanAccessCategory(category *entity.Category, actor *entity.User) apierror.ErrorResponse {
	if category == nil {
		return apierror.NotFoundError
	}
	return p.canAccess(category, actor)
}

func (p *OwnershipPolicy) CanAccessNote(note *entity.Note, actor *entity.User) apierror.ErrorResponse {
	if note == nil {
		return apierror.NotFoundError
	}
	return p.canAccess(note, actor)
}

// CanLinkCategory checks that a note owned by 'actor' may point at 'category'.
// Unlike plain access, a bad reference is a validation problem of the payload.
func (p *OwnershipPolicy) CanLinkCategory(category *entity.Category, actor *entity.User) apierror.ErrorResponse {
	if category == nil || category.OwnerID() != actor.ID {
		return apierror.NewFieldError("category_id", invalidCategory)
	}
	return nil
}

func (p *OwnershipPolicy) canAccess(res entity.Owned, actor *entity.User) apierror.ErrorResponse {
	if res.OwnerID() != actor.ID {
		// Repositories are scoped already, getting here means a query lost its owner filter.
		log.Warnf("user %d reached a resource owned by user %d", actor.ID, res.OwnerID())
		return apierror.NotFoundError
	}
	return nil
}
