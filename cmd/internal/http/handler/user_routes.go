package handler

import (
	"net/http"

	"notetaker/cmd/internal/contract"
	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/infrastructure/tokens"
	"notetaker/cmd/internal/utils"
	"notetaker/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(req *contract.RegisterRequest) (*contract.AuthResponse, apierror.ErrorResponse)
	Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse)
	Refresh(req *contract.RefreshRequest) (*contract.AccessResponse, apierror.ErrorResponse)
	Logout(actor *entity.User, current *tokens.Claims, req *contract.LogoutRequest) apierror.ErrorResponse
	GetCurrentUser(actor *entity.User) *contract.UserResponse
	DeleteAccount(actor *entity.User) apierror.ErrorResponse
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) Register(c echo.Context) error {
	var req contract.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Register(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (u *DefaultUserRoute) Login(c echo.Context) error {
	var req contract.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Login(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) Refresh(c echo.Context) error {
	var req contract.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Refresh(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) Logout(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	claims, cerr := utils.GetClaimsFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr := u.UserService.Logout(user, claims, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusResetContent)
}

func (u *DefaultUserRoute) GetCurrentUser(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}
	return c.JSON(http.StatusOK, u.UserService.GetCurrentUser(user))
}

func (u *DefaultUserRoute) DeleteAccount(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	if apierr := u.UserService.DeleteAccount(user); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
