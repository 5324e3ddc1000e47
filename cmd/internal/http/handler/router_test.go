package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notetaker/cmd/internal/contract"
	"notetaker/cmd/internal/domain/policy"
	"notetaker/cmd/internal/domain/sqlite"
	"notetaker/cmd/internal/domain/sqlite/repository"
	appmw "notetaker/cmd/internal/http/middleware"
	"notetaker/cmd/internal/infrastructure/tokens"
	"notetaker/cmd/internal/service"
	"notetaker/cmd/internal/utils/validators"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t *testing.T
	e *echo.Echo
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()

	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)

	validate := validators.New()
	ownership := policy.NewOwnershipPolicy()
	categoryRepo := repository.NewCategoryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	userService := service.NewUserService(repository.NewUserRepository(db), tokenRepo,
		tokens.NewIssuer("handler-secret", time.Minute, time.Hour), validate)

	e := NewRouter(&RouterConfig{
		Categories: NewCategoryDefault(service.NewCategoryService(categoryRepo, ownership, validate)),
		Notes:      NewNoteDefault(service.NewNoteService(noteRepo, categoryRepo, ownership, validate)),
		Users:      NewUserDefault(userService),
		Auth:       appmw.NewAuthMiddleware(&appmw.AuthMiddlewareConfig{Authenticator: userService}),
		BodyLimit:  "1M",
	})
	return &apiClient{t: t, e: e}
}

func (a *apiClient) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *apiClient) register(email string) *contract.AuthResponse {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/auth/register/", "", echo.Map{
		"email":     email,
		"password":  "correct-horse",
		"password2": "correct-horse",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp contract.AuthResponse
	decode(a.t, rec, &resp)
	return &resp
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func TestRouter_AuthFlow(t *testing.T) {
	api := newAPI(t)
	auth := api.register("alice@example.com")

	t.Run("requires a token", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/categories", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = api.do(http.MethodGet, "/api/categories", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("current user", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/auth/user/", auth.Tokens.Access, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var me contract.UserResponse
		decode(t, rec, &me)
		assert.Equal(t, "alice@example.com", me.Email)
	})

	t.Run("login failure", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/auth/login", "", echo.Map{"email": "alice@example.com", "password": "wrong-pass"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email or password")
	})

	t.Run("refresh", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/auth/token/refresh/", "", echo.Map{"refresh": auth.Tokens.Refresh})
		require.Equal(t, http.StatusOK, rec.Code)

		var access contract.AccessResponse
		decode(t, rec, &access)
		assert.NotEmpty(t, access.Access)
	})

	t.Run("logout revokes the tokens", func(t *testing.T) {
		login := api.do(http.MethodPost, "/api/auth/login", "", echo.Map{"email": "alice@example.com", "password": "correct-horse"})
		require.Equal(t, http.StatusOK, login.Code)

		var session contract.AuthResponse
		decode(t, login, &session)

		rec := api.do(http.MethodPost, "/api/auth/logout/", session.Tokens.Access, echo.Map{"refresh": "garbage"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = api.do(http.MethodPost, "/api/auth/logout/", session.Tokens.Access, echo.Map{"refresh": session.Tokens.Refresh})
		assert.Equal(t, http.StatusResetContent, rec.Code)

		rec = api.do(http.MethodGet, "/api/auth/user", session.Tokens.Access, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = api.do(http.MethodPost, "/api/auth/token/refresh", "", echo.Map{"refresh": session.Tokens.Refresh})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		// The first session is unaffected.
		rec = api.do(http.MethodGet, "/api/auth/user", auth.Tokens.Access, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_CategoriesAndNotes(t *testing.T) {
	api := newAPI(t)
	alice := api.register("alice@example.com").Tokens.Access
	bob := api.register("bob@example.com").Tokens.Access

	rec := api.do(http.MethodGet, "/api/categories/", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []contract.CategoryResponse
	decode(t, rec, &categories)
	require.Len(t, categories, 3)

	rec = api.do(http.MethodPost, "/api/categories", alice, echo.Map{"name": "Work", "theme_id": "blue"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var work contract.CategoryResponse
	decode(t, rec, &work)
	assert.Equal(t, "blue", work.Theme)

	rec = api.do(http.MethodPost, "/api/notes/", alice, echo.Map{"title": "plan", "category_id": work.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var note contract.NoteResponse
	decode(t, rec, &note)
	require.NotNil(t, note.CategoryName)
	assert.Equal(t, "Work", *note.CategoryName)

	t.Run("filter by category", func(t *testing.T) {
		rec := api.do(http.MethodGet, fmt.Sprintf("/api/notes?category_id=%d", work.ID), alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var notes []contract.NoteResponse
		decode(t, rec, &notes)
		require.Len(t, notes, 1)
		assert.Equal(t, note.ID, notes[0].ID)

		rec = api.do(http.MethodGet, "/api/notes?category_id=abc", alice, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("other users see not found", func(t *testing.T) {
		for _, path := range []string{
			fmt.Sprintf("/api/notes/%d", note.ID),
			fmt.Sprintf("/api/categories/%d", work.ID),
		} {
			rec := api.do(http.MethodGet, path, bob, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code, path)
		}

		rec := api.do(http.MethodPost, "/api/notes", bob, echo.Map{"title": "sneaky", "category_id": work.ID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "category_id")
	})

	t.Run("patch unlinks with explicit null", func(t *testing.T) {
		rec := api.do(http.MethodPatch, fmt.Sprintf("/api/notes/%d", note.ID), alice, `{"category_id": null}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated contract.NoteResponse
		decode(t, rec, &updated)
		assert.Nil(t, updated.CategoryID)
		assert.Equal(t, "plan", updated.Title)
	})

	t.Run("bulk move", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/notes/bulk_move/", alice, echo.Map{
			"note_ids":           []int64{note.ID},
			"target_category_id": work.ID,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp contract.BulkMoveResponse
		decode(t, rec, &resp)
		assert.Equal(t, int64(1), resp.Updated)
		assert.Equal(t, "Moved 1 notes to Work", resp.Message)
	})

	t.Run("move notes and delete needs a target", func(t *testing.T) {
		rec := api.do(http.MethodPost, fmt.Sprintf("/api/categories/%d/move_notes_and_delete", work.ID), alice, echo.Map{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "target_category_id is required")
	})

	t.Run("move notes and delete", func(t *testing.T) {
		target := categories[0]
		rec := api.do(http.MethodPost, fmt.Sprintf("/api/categories/%d/move_notes_and_delete/", work.ID), alice,
			echo.Map{"target_category_id": target.ID})
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		rec = api.do(http.MethodGet, fmt.Sprintf("/api/notes/%d", note.ID), alice, nil)
		var moved contract.NoteResponse
		decode(t, rec, &moved)
		require.NotNil(t, moved.CategoryID)
		assert.Equal(t, target.ID, *moved.CategoryID)
	})

	t.Run("delete with notes", func(t *testing.T) {
		target := categories[0]
		rec := api.do(http.MethodPost, fmt.Sprintf("/api/categories/%d/delete_with_notes", target.ID), alice, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = api.do(http.MethodGet, fmt.Sprintf("/api/notes/%d", note.ID), alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad ids and bodies", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/notes/abc", alice, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = api.do(http.MethodPost, "/api/categories", alice, "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_OwnerComesFromToken(t *testing.T) {
	api := newAPI(t)
	alice := api.register("alice@example.com")
	bob := api.register("bob@example.com").Tokens.Access

	rec := api.do(http.MethodPost, "/api/categories", bob, echo.Map{"name": "Planted", "user_id": alice.User.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var category contract.CategoryResponse
	decode(t, rec, &category)

	rec = api.do(http.MethodPost, "/api/notes", bob, echo.Map{"title": "planted", "user_id": alice.User.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var note contract.NoteResponse
	decode(t, rec, &note)

	for _, path := range []string{
		fmt.Sprintf("/api/categories/%d", category.ID),
		fmt.Sprintf("/api/notes/%d", note.ID),
	} {
		rec := api.do(http.MethodGet, path, alice.Tokens.Access, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)

		rec = api.do(http.MethodGet, path, bob, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec = api.do(http.MethodGet, "/api/notes", alice.Tokens.Access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []contract.NoteResponse
	decode(t, rec, &notes)
	assert.Empty(t, notes)
}

func TestRouter_DeleteAccount(t *testing.T) {
	api := newAPI(t)
	alice := api.register("alice@example.com").Tokens.Access

	rec := api.do(http.MethodDelete, "/api/auth/user", alice, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/categories", alice, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The email is free again.
	api.register("alice@example.com")
}

func TestRouter_Operational(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = api.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}
