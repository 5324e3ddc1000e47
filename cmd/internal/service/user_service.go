package service

import (
	"errors"
	"strings"

	"notetaker/cmd/internal/contract"
	"notetaker/cmd/internal/domain/entity"
	"notetaker/cmd/internal/domain/sqlite/repository"
	"notetaker/cmd/internal/infrastructure/tokens"
	"notetaker/cmd/internal/metrics"
	"notetaker/cmd/internal/utils"
	"notetaker/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	authKindLogin   = "login"
	authKindRefresh = "refresh"
)

type UserRepository interface {
	FindByID(id int64) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	CreateWithCategories(user *entity.User, categories []*entity.Category) error
	Delete(user *entity.User) error
}

type TokenRepository interface {
	Blacklist(tokens ...*entity.BlacklistedToken) error
	IsBlacklisted(jti string) (bool, error)
}

type DefaultUserService struct {
	UserRepo  UserRepository
	TokenRepo TokenRepository
	Issuer    *tokens.Issuer
	Validate  *validator.Validate

	// hashCost is lowered by tests, bcrypt.DefaultCost otherwise.
	hashCost int
}

func NewUserService(userRepo UserRepository, tokenRepo TokenRepository, issuer *tokens.Issuer, validate *validator.Validate) *DefaultUserService {
	return &DefaultUserService{
		UserRepo:  userRepo,
		TokenRepo: tokenRepo,
		Issuer:    issuer,
		Validate:  validate,
		hashCost:  bcrypt.DefaultCost,
	}
}

// Register creates the account along with its starter categories and signs it in.
func (u *DefaultUserService) Register(req *contract.RegisterRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	// Passwords are taken verbatim, only the identity fields get trimmed.
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if valerr := u.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	if req.Password != req.Password2 {
		return nil, apierror.NewFieldError("password", "Password fields didn't match.")
	}

	taken, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if email %s is taken: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	if taken {
		return nil, apierror.NewFieldError("email", "User with this email already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.hashCost)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	username := req.Username
	if username == "" {
		username = req.Email
	}

	now := utils.NowUTC()
	user := &entity.User{
		Email:        req.Email,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = u.UserRepo.CreateWithCategories(user, entity.NewDefaultCategories(now))
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil, apierror.NewFieldError("email", "User with this email already exists.")
	}

	if err != nil {
		log.Errorf("failed to register user %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}
	return u.signIn(user)
}

func (u *DefaultUserService) Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if valerr := u.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user by email %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		metrics.ObserveAuth(authKindLogin, false)
		return nil, apierror.InvalidCredentialsError
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.ObserveAuth(authKindLogin, false)
		return nil, apierror.InvalidCredentialsError
	}

	metrics.ObserveAuth(authKindLogin, true)
	return u.signIn(user)
}

// Refresh exchanges a refresh token for a new access token. The refresh token itself is not rotated.
func (u *DefaultUserService) Refresh(req *contract.RefreshRequest) (*contract.AccessResponse, apierror.ErrorResponse) {
	if valerr := u.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	claims, apierr := u.resolveToken(req.Refresh, tokens.TypeRefresh)
	if apierr != nil {
		metrics.ObserveAuth(authKindRefresh, false)
		return nil, apierr
	}

	userID, _ := claims.UserID()
	user, err := u.UserRepo.FindByID(userID)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", userID, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		metrics.ObserveAuth(authKindRefresh, false)
		return nil, apierror.InvalidAuthTokenError
	}

	access, err := u.Issuer.IssueAccess(user.ID)
	if err != nil {
		log.Errorf("failed to issue access token for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	metrics.ObserveAuth(authKindRefresh, true)
	return &contract.AccessResponse{Access: access}, nil
}

// Logout revokes the given refresh token and the access token that authenticated the call.
func (u *DefaultUserService) Logout(actor *entity.User, current *tokens.Claims, req *contract.LogoutRequest) apierror.ErrorResponse {
	now := utils.NowUTC()
	revoked := make([]*entity.BlacklistedToken, 0, 2)

	if refresh := strings.TrimSpace(req.Refresh); refresh != "" {
		claims, err := u.Issuer.Parse(refresh, tokens.TypeRefresh)
		if err != nil {
			return apierror.InvalidRefreshTokenError
		}

		// Someone else's refresh token is treated like a malformed one.
		if owner, _ := claims.UserID(); owner != actor.ID {
			return apierror.InvalidRefreshTokenError
		}
		revoked = append(revoked, toBlacklisted(actor, claims, now))
	}

	if current != nil {
		revoked = append(revoked, toBlacklisted(actor, current, now))
	}

	if err := u.TokenRepo.Blacklist(revoked...); err != nil {
		log.Errorf("failed to blacklist tokens of user %d: %v", actor.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *DefaultUserService) GetCurrentUser(actor *entity.User) *contract.UserResponse {
	return toUserResponse(actor)
}

// DeleteAccount removes the actor along with all its categories and notes.
func (u *DefaultUserService) DeleteAccount(actor *entity.User) apierror.ErrorResponse {
	if err := u.UserRepo.Delete(actor); err != nil {
		log.Errorf("failed to delete user %d: %v", actor.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

// Authenticate resolves a raw access token into its user.
// Unknown users and revoked tokens are both reported as an invalid token.
func (u *DefaultUserService) Authenticate(raw string) (*entity.User, *tokens.Claims, apierror.ErrorResponse) {
	claims, apierr := u.resolveToken(raw, tokens.TypeAccess)
	if apierr != nil {
		return nil, nil, apierr
	}

	userID, _ := claims.UserID()
	user, err := u.UserRepo.FindByID(userID)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", userID, err)
		return nil, nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, nil, apierror.InvalidAuthTokenError
	}
	return user, claims, nil
}

func (u *DefaultUserService) resolveToken(raw string, want tokens.Type) (*tokens.Claims, apierror.ErrorResponse) {
	claims, err := u.Issuer.Parse(raw, want)
	if err != nil {
		return nil, apierror.InvalidAuthTokenError
	}

	if _, err = claims.UserID(); err != nil {
		return nil, apierror.InvalidAuthTokenError
	}

	revoked, err := u.TokenRepo.IsBlacklisted(claims.ID)
	if err != nil {
		log.Errorf("failed to check blacklist for token %s: %v", claims.ID, err)
		return nil, apierror.InternalServerError
	}

	if revoked {
		return nil, apierror.InvalidAuthTokenError
	}
	return claims, nil
}

func (u *DefaultUserService) signIn(user *entity.User) (*contract.AuthResponse, apierror.ErrorResponse) {
	pair, err := u.Issuer.IssuePair(user.ID)
	if err != nil {
		log.Errorf("failed to issue tokens for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.AuthResponse{
		User:   toUserResponse(user),
		Tokens: &contract.TokenPair{Refresh: pair.Refresh, Access: pair.Access},
	}, nil
}

func toBlacklisted(actor *entity.User, claims *tokens.Claims, now int64) *entity.BlacklistedToken {
	return &entity.BlacklistedToken{
		JTI:       claims.ID,
		UserID:    actor.ID,
		TokenType: string(claims.Type),
		ExpiresAt: claims.ExpiresAtMillis(),
		CreatedAt: now,
	}
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}
}
