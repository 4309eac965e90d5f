package service

import (
	"context"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"

	"github.com/google/uuid"
)

var ErrEmailExists = apperr.Validation("email already exists")

type UserService interface {
	CreateUser(actor Actor, req *CreateUserRequest) (*model.User, error)
	GetAllUsers(actor Actor, storeID *uuid.UUID) ([]model.UserResponse, error)
	GetUserByID(actor Actor, id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	FullName    string     `json:"full_name" validate:"required"`
	PhoneNumber string     `json:"phone_number"`
	RoleID      uint       `json:"role_id" validate:"required"`
	StoreID     *uuid.UUID `json:"store_id,omitempty"`
}

type userService struct {
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	storeRepo repository.StoreRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, storeRepo repository.StoreRepository) UserService {
	return &userService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		storeRepo: storeRepo,
	}
}

func (s *userService) CreateUser(actor Actor, req *CreateUserRequest) (*model.User, error) {
	// 1. Validate request
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Check if email already exists
	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}

	// 3. Validate role exists
	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, apperr.Validation("role not found")
	}
	if role.Code == model.RoleSuperAdmin && !actor.IsSuperAdmin() {
		return nil, apperr.Validation("only a super admin can create super admins")
	}

	// 4. Resolve store. Super admins may be created without one.
	var storeID *uuid.UUID
	if role.Code != model.RoleSuperAdmin || req.StoreID != nil {
		resolved, err := ResolveStore(actor, req.StoreID)
		if err != nil {
			return nil, err
		}
		if _, err := s.storeRepo.FindByID(context.Background(), resolved); err != nil {
			return nil, notFound(err, "store %s not found", resolved)
		}
		storeID = &resolved
	}

	// 5. Create user with the role's privileges
	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &req.RoleID,
		StoreID:     storeID,
		IsActive:    true,
		Privileges:  role.Privileges,
	}
	user.CreatedBy = actor.auditID()
	user.UpdatedBy = actor.auditID()

	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Unexpected(err, "failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, classify(err, "failed to create user")
	}

	return s.userRepo.FindByID(user.ID)
}

// GetAllUsers lists users of the caller's store. A super admin without a
// requested store sees every user.
func (s *userService) GetAllUsers(actor Actor, storeID *uuid.UUID) ([]model.UserResponse, error) {
	var scope *uuid.UUID
	if !actor.IsSuperAdmin() || storeID != nil {
		resolved, err := ResolveStore(actor, storeID)
		if err != nil {
			return nil, err
		}
		scope = &resolved
	}

	users, err := s.userRepo.FindAll(scope)
	if err != nil {
		return nil, classify(err, "failed to load users")
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(actor Actor, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	if !actor.IsSuperAdmin() {
		if actor.StoreID == nil || user.StoreID == nil || *user.StoreID != *actor.StoreID {
			return nil, apperr.NotFound("user not found")
		}
	}
	response := user.ToResponse()
	return &response, nil
}
