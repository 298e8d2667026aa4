package service

import (
	"errors"
	"strings"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/metrics"
	"compta-pme-api/internal/model"
	"compta-pme-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = apperror.NewConflict("email already in use")
	ErrUserNotFound = apperror.NewNotFound("user not found")
)

type UserService interface {
	CreateUser(req *CreateUserRequest) (*model.User, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

// CreateUserRequest creates an account without a Societe.
type CreateUserRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6"`
	Name     string     `json:"name" validate:"required"`
	Phone    string     `json:"phone"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=PME EXPERT"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(req *CreateUserRequest) (*model.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RolePME
	}

	user, err := newUser(s.userRepo, req.Email, req.Password, req.Name, req.Phone, role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(nil, user); err != nil {
		return nil, translateUserWriteError(err)
	}

	metrics.Registrations.WithLabelValues(string(role)).Inc()
	return user, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	response := user.ToResponse()
	return &response, nil
}

// newUser checks email uniqueness and builds a user with a hashed password.
// Nothing is written.
func newUser(userRepo repository.UserRepository, email, password, name, phone string, role model.Role) (*model.User, error) {
	email = normalizeEmail(email)

	exists, err := userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	user := &model.User{
		Email: email,
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
		Role:  role,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, apperror.NewInternal(err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// translateUserWriteError turns a lost race on the unique email index into a conflict.
func translateUserWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailExists
	}
	return err
}
