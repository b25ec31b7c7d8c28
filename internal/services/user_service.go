package services

import (
	"context"
	"errors"

	"github.com/talentsift/backend/internal/auth"
	"github.com/talentsift/backend/internal/models"
	pgrepo "github.com/talentsift/backend/internal/repositories/postgres"
	"github.com/talentsift/backend/internal/utils"
)

type UserService interface {
	Register(ctx context.Context, name, email, password, confirm string) (*models.User, error)
	// Login returns a signed bearer token. Unknown email and wrong password
	// produce the identical error so callers cannot enumerate accounts.
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, userID uint) (*models.User, error)
}

type userService struct {
	users  pgrepo.UserRepository
	tokens *auth.Issuer
}

func NewUserService(users pgrepo.UserRepository, tokens *auth.Issuer) UserService {
	return &userService{users: users, tokens: tokens}
}

func (s *userService) Register(ctx context.Context, name, email, password, confirm string) (*models.User, error) {
	const op = "UserService.Register"

	if name == "" || email == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name, email, and password are required", nil)
	}
	if password != confirm {
		return nil, utils.E(utils.CodeInvalidArgument, op, "passwords do not match", nil)
	}

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check email", err)
	}
	if taken {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email already registered", nil)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return u, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "UserService.Login"

	if email == "" || password == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "username and password are required", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}
	if err := utils.CheckPassword(u.PasswordHash, password); err != nil {
		return "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}

	token, err := s.tokens.Issue(u.Email)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return token, nil
}

func (s *userService) Me(ctx context.Context, userID uint) (*models.User, error) {
	const op = "UserService.Me"

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	return u, nil
}
