package service

import (
	"strings"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/model"
	"compta-pme-api/internal/repository"

	"github.com/google/uuid"
)

var ErrClientNotFound = apperror.NewNotFound("client not found")

// ClientService manages the customers of one Societe. The societeID argument
// is the tenant; ids belonging to another tenant behave as absent.
type ClientService interface {
	Create(societeID uuid.UUID, req *ClientRequest, userID string) (*model.Client, error)
	List(societeID uuid.UUID) ([]model.Client, error)
	Get(societeID, id uuid.UUID) (*model.Client, error)
	Update(societeID, id uuid.UUID, req *ClientPatchRequest, userID string) (*model.Client, error)
	Delete(societeID, id uuid.UUID) error
}

type ClientRequest struct {
	Nom       string `json:"nom" validate:"required,max=255"`
	Adresse   string `json:"adresse"`
	Email     string `json:"email" validate:"omitempty,email"`
	Telephone string `json:"telephone" validate:"max=30"`
	NumeroCC  string `json:"numero_cc" validate:"max=50"`
}

func (r *ClientRequest) apply(c *model.Client) {
	c.Nom = strings.TrimSpace(r.Nom)
	c.Adresse = r.Adresse
	c.Email = strings.TrimSpace(r.Email)
	c.Telephone = strings.TrimSpace(r.Telephone)
	c.NumeroCC = strings.TrimSpace(r.NumeroCC)
}

// ClientPatchRequest carries a partial update; nil fields are left untouched.
type ClientPatchRequest struct {
	Nom       *string `json:"nom" validate:"omitempty,min=1,max=255"`
	Adresse   *string `json:"adresse"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Telephone *string `json:"telephone" validate:"omitempty,max=30"`
	NumeroCC  *string `json:"numero_cc" validate:"omitempty,max=50"`
}

func (r *ClientPatchRequest) apply(c *model.Client) {
	if r.Nom != nil {
		c.Nom = strings.TrimSpace(*r.Nom)
	}
	if r.Adresse != nil {
		c.Adresse = *r.Adresse
	}
	if r.Email != nil {
		c.Email = strings.TrimSpace(*r.Email)
	}
	if r.Telephone != nil {
		c.Telephone = strings.TrimSpace(*r.Telephone)
	}
	if r.NumeroCC != nil {
		c.NumeroCC = strings.TrimSpace(*r.NumeroCC)
	}
}

type clientService struct {
	clientRepo repository.ClientRepository
}

func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) Create(societeID uuid.UUID, req *ClientRequest, userID string) (*model.Client, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	client := &model.Client{SocieteID: societeID}
	req.apply(client)
	client.Touch(userID)

	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) List(societeID uuid.UUID) ([]model.Client, error) {
	return s.clientRepo.FindAll(societeID)
}

func (s *clientService) Get(societeID, id uuid.UUID) (*model.Client, error) {
	client, err := s.clientRepo.FindByID(societeID, id)
	if err != nil {
		return nil, notFoundOr(err, ErrClientNotFound)
	}
	return client, nil
}

func (s *clientService) Update(societeID, id uuid.UUID, req *ClientPatchRequest, userID string) (*model.Client, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	client, err := s.Get(societeID, id)
	if err != nil {
		return nil, err
	}

	req.apply(client)
	client.UpdatedBy = userID
	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return s.Get(societeID, id)
}

func (s *clientService) Delete(societeID, id uuid.UUID) error {
	affected, err := s.clientRepo.Delete(societeID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrClientNotFound
	}
	return nil
}
