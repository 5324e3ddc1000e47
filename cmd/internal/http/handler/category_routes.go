package handler

import (
	"net/http"

	"notetaker/cmd/internal/contract"
	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/utils"
	"notetaker/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CategoryService interface {
	GetCategories(actor *entity.User) ([]*contract.CategoryResponse, apierror.ErrorResponse)
	GetCategoryByID(actor *entity.User, id int64) (*contract.CategoryResponse, apierror.ErrorResponse)
	CreateCategory(actor *entity.User, req *contract.CreateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	UpdateCategory(actor *entity.User, id int64, req *contract.UpdateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	DeleteCategory(actor *entity.User, id int64) apierror.ErrorResponse
	DeleteWithNotes(actor *entity.User, id int64) apierror.ErrorResponse
	MoveNotesAndDelete(actor *entity.User, id int64, req *contract.MoveNotesRequest) apierror.ErrorResponse
}

type DefaultCategoryRoute struct {
	CategoryService CategoryService
}

func NewCategoryDefault(categoryService CategoryService) *DefaultCategoryRoute {
	return &DefaultCategoryRoute{CategoryService: categoryService}
}

func (r *DefaultCategoryRoute) GetCategories(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	categories, apierr := r.CategoryService.GetCategories(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, categories)
}

func (r *DefaultCategoryRoute) GetCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := utils.ParseID(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	category, apierr := r.CategoryService.GetCategoryByID(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, category)
}

func (r *DefaultCategoryRoute) CreateCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	category, apierr := r.CategoryService.CreateCategory(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory serves both PUT and PATCH, fields left out of the body are kept.
func (r *DefaultCategoryRoute) UpdateCategory(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := utils.ParseID(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	var req contract.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	category, apierr := r.CategoryService.UpdateCategory(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, category)
}

func (r *DefaultCategoryRoute) DeleteCategory(c echo.Context) error {
	return r.withCategory(c, r.CategoryService.DeleteCategory)
}

func (r *DefaultCategoryRoute) DeleteWithNotes(c echo.Context) error {
	return r.withCategory(c, r.CategoryService.DeleteWithNotes)
}

func (r *DefaultCategoryRoute) MoveNotesAndDelete(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := utils.ParseID(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	var req contract.MoveNotesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr := r.CategoryService.MoveNotesAndDelete(user, id, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

// withCategory runs a body-less action against the category at ":id".
func (r *DefaultCategoryRoute) withCategory(c echo.Context, action func(*entity.User, int64) apierror.ErrorResponse) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := utils.ParseID(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	if apierr := action(user, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
