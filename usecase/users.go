package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/repository"
	"github.com/anagroupsupplies/shop/services"
	"github.com/anagroupsupplies/shop/utils"
)

type UserService struct {
	UserRepo *repository.UserRepo
}

func NewUserService(repo *repository.UserRepo) *UserService {
	return &UserService{UserRepo: repo}
}

// CreateUser registers a new customer account.
func (svc *UserService) CreateUser(ctx context.Context, user *model.User) error {
	if user.Username == "" || user.Email == "" {
		return errors.New("username and email are required")
	}
	if !utils.ValidatePassword(user.Password) {
		return &model.ValidationError{Field: "password", Reason: "password must be at least 8 characters with a number and a special character"}
	}

	existing, err := svc.UserRepo.FindUserByUsername(ctx, user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("username already exists")
	}

	hash, err := services.HashPassword(user.Password)
	if err != nil {
		return err
	}

	user.UserID = utils.GenerateUserID()
	user.Password = hash
	user.Role = model.RoleCustomer
	user.IsActive = true
	user.CreatedAt = time.Now()

	_, err = svc.UserRepo.AddUser(ctx, user)
	return err
}

// Authenticate verifies credentials and issues an access token. The device
// summary from the login user agent is recorded for the account audit view.
func (svc *UserService) Authenticate(ctx context.Context, username, password, device string) (*model.User, string, error) {
	user, err := svc.UserRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !services.VerifyPassword(user.Password, password) {
		utils.TrackAuthAttempt("failure", "login")
		return nil, "", errors.New("invalid credentials")
	}

	token, err := services.GenerateToken(user.UserID, user.Role)
	if err != nil {
		return nil, "", err
	}

	if err := svc.UserRepo.RecordLogin(ctx, user.UserID, device); err != nil {
		// Audit stamp failure does not block the login.
		utils.TrackError("database", "login_audit_failed")
	}

	utils.TrackAuthAttempt("success", "login")
	return user, token, nil
}

// UpdateRole changes a user's role from the admin user management page.
func (svc *UserService) UpdateRole(ctx context.Context, userID string, role model.Role) error {
	switch role {
	case model.RoleCustomer, model.RoleAdmin:
	default:
		return &model.ValidationError{Field: "role", Reason: "unknown role"}
	}
	return svc.UserRepo.UpdateRole(ctx, userID, role)
}
