package policy

import (
	"net/http"
	"testing"

	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/utils/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnershipPolicy_Access(t *testing.T) {
	p := NewOwnershipPolicy()
	owner := &entity.User{ID: 1}
	stranger := &entity.User{ID: 2}

	category := &entity.Category{ID: 10, UserID: owner.ID}
	note := &entity.Note{ID: 20, UserID: owner.ID}

	t.Run("owner can access", func(t *testing.T) {
		assert.Nil(t, p.CanAccessCategory(category, owner))
		assert.Nil(t, p.CanAccessNote(note, owner))
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		assert.Equal(t, apierror.NotFoundError, p.CanAccessCategory(category, stranger))
		assert.Equal(t, apierror.NotFoundError, p.CanAccessNote(note, stranger))
	})

	t.Run("missing resource is not found", func(t *testing.T) {
		assert.Equal(t, apierror.NotFoundError, p.CanAccessCategory(nil, owner))
		assert.Equal(t, apierror.NotFoundError, p.CanAccessNote(nil, owner))
	})
}

func TestOwnershipPolicy_CanLinkCategory(t *testing.T) {
	p := NewOwnershipPolicy()
	owner := &entity.User{ID: 1}

	assert.Nil(t, p.CanLinkCategory(&entity.Category{ID: 3, UserID: 1}, owner))

	for name, category := range map[string]*entity.Category{
		"foreign category": {ID: 4, UserID: 2},
		"missing category": nil,
	} {
		t.Run(name, func(t *testing.T) {
			apierr := p.CanLinkCategory(category, owner)
			require.NotNil(t, apierr)
			assert.Equal(t, http.StatusBadRequest, apierr.Code())

			structured, ok := apierr.(*apierror.StructuredError)
			require.True(t, ok)
			assert.Equal(t, []string{"Invalid category."}, structured.Errors["category_id"])
		})
	}
}
