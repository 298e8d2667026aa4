package service

import (
	"errors"
	"strings"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/metrics"
	"compta-pme-api/internal/model"
	"compta-pme-api/internal/repository"
	"compta-pme-api/pkg/jwt"
	"compta-pme-api/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = apperror.NewUnauthorized("invalid credentials")

type AuthService interface {
	RegisterPme(req *RegisterPmeRequest) (*AuthResponse, error)
	RegisterExpert(req *RegisterExpertRequest) (*AuthResponse, error)
	Login(email, password string) (*AuthResponse, error)
	Me(userID uuid.UUID) (*MeResponse, error)
}

type RegisterExpertRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
}

type RegisterPmeRequest struct {
	RegisterExpertRequest
	SocieteNom string `json:"societeNom" validate:"required"`
}

type AuthResponse struct {
	Token   string             `json:"token"`
	User    model.UserResponse `json:"user"`
	Societe *model.Societe     `json:"societe,omitempty"`
}

type MeResponse struct {
	User     model.UserResponse `json:"user"`
	Societes []model.Societe    `json:"societes"`
}

type authService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	societeRepo repository.SocieteRepository
	tokens      *jwt.Manager
	log         *logger.Logger
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, societeRepo repository.SocieteRepository, tokens *jwt.Manager, log *logger.Logger) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		societeRepo: societeRepo,
		tokens:      tokens,
		log:         log.WithComponent("auth"),
	}
}

func (s *authService) RegisterPme(req *RegisterPmeRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.register(&req.RegisterExpertRequest, model.RolePME, strings.TrimSpace(req.SocieteNom))
}

func (s *authService) RegisterExpert(req *RegisterExpertRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.register(req, model.RoleExpert, "")
}

func (s *authService) register(req *RegisterExpertRequest, role model.Role, societeNom string) (*AuthResponse, error) {
	user, err := newUser(s.userRepo, req.Email, req.Password, req.Name, req.Phone, role)
	if err != nil {
		return nil, err
	}

	var societe *model.Societe
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return translateUserWriteError(err)
		}
		if !role.OwnsSociete() {
			return nil
		}
		societe = &model.Societe{Nom: societeNom, OwnerID: user.ID}
		societe.Touch(user.ID.String())
		return s.societeRepo.Create(tx, societe)
	})
	if err != nil {
		return nil, err
	}

	metrics.Registrations.WithLabelValues(string(role)).Inc()
	s.log.Infow("account registered", "user_id", user.ID, "role", role)

	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return &AuthResponse{Token: token, User: user.ToResponse(), Societe: societe}, nil
}

func (s *authService) Login(email, password string) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	metrics.Logins.WithLabelValues("success").Inc()
	return &AuthResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) Me(userID uuid.UUID) (*MeResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	societes := user.Societes
	if societes == nil {
		societes = []model.Societe{}
	}
	return &MeResponse{User: user.ToResponse(), Societes: societes}, nil
}
