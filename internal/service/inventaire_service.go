package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/internal/metrics"
	"compta-pme-api/internal/model"
	"compta-pme-api/internal/repository"
	"compta-pme-api/internal/ws"
	"compta-pme-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const libelleDateLayout = "02/01/2006"

var (
	ErrInventaireNotFound = apperror.NewNotFound("inventaire not found")
	ErrInventaireCloture  = apperror.NewBusinessRule(apperror.CodeClosed, "cannot modify a closed inventory")
)

type InventaireService interface {
	CreateInventaire(societeID uuid.UUID, req *InventaireRequest, userID string) (*model.Inventaire, error)
	ListInventaires(societeID uuid.UUID) ([]model.Inventaire, error)
	GetInventaire(societeID, id uuid.UUID) (*model.Inventaire, error)
	AjouterLigneInventaire(societeID, inventaireID uuid.UUID, req *LigneInventaireRequest) (*model.LigneInventaire, error)
	CloturerInventaire(societeID, inventaireID uuid.UUID, userID string) (*model.Inventaire, error)
}

type InventaireRequest struct {
	DateInventaire *time.Time `json:"date_inventaire"`
	Commentaire    string     `json:"commentaire"`
}

type LigneInventaireRequest struct {
	ProduitID       uuid.UUID       `json:"produit_id" validate:"uuid_required"`
	QuantiteComptee decimal.Decimal `json:"quantite_comptee" validate:"decimal_gte0"`
}

type inventaireService struct {
	db             *gorm.DB
	inventaireRepo repository.InventaireRepository
	produitRepo    repository.ProduitRepository
	ledger         *stockLedger
	wsHub          *ws.Hub
	log            *logger.Logger
}

func NewInventaireService(db *gorm.DB, inventaireRepo repository.InventaireRepository, produitRepo repository.ProduitRepository, mouvementRepo repository.MouvementRepository, hub *ws.Hub, log *logger.Logger) InventaireService {
	return &inventaireService{
		db:             db,
		inventaireRepo: inventaireRepo,
		produitRepo:    produitRepo,
		ledger:         &stockLedger{produitRepo: produitRepo, mouvementRepo: mouvementRepo},
		wsHub:          hub,
		log:            log.WithComponent("inventaire"),
	}
}

func (s *inventaireService) CreateInventaire(societeID uuid.UUID, req *InventaireRequest, userID string) (*model.Inventaire, error) {
	date := time.Now().UTC()
	if req.DateInventaire != nil {
		date = req.DateInventaire.UTC()
	}

	inventaire := &model.Inventaire{
		SocieteID:      societeID,
		DateInventaire: date,
		Commentaire:    strings.TrimSpace(req.Commentaire),
		Statut:         model.InventaireBrouillon,
	}
	inventaire.Touch(userID)

	if err := s.inventaireRepo.Create(inventaire); err != nil {
		return nil, err
	}
	return inventaire, nil
}

func (s *inventaireService) ListInventaires(societeID uuid.UUID) ([]model.Inventaire, error) {
	return s.inventaireRepo.FindAll(societeID)
}

func (s *inventaireService) GetInventaire(societeID, id uuid.UUID) (*model.Inventaire, error) {
	inventaire, err := s.inventaireRepo.FindByID(societeID, id)
	if err != nil {
		return nil, notFoundOr(err, ErrInventaireNotFound)
	}
	return inventaire, nil
}

// AjouterLigneInventaire records a count. The first write of a product
// captures the live balance as QuantiteSysteme; later writes for the same
// product only replace QuantiteComptee.
func (s *inventaireService) AjouterLigneInventaire(societeID, inventaireID uuid.UUID, req *LigneInventaireRequest) (*model.LigneInventaire, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var ligne *model.LigneInventaire
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inventaire, err := s.inventaireRepo.FindForUpdate(tx, societeID, inventaireID)
		if err != nil {
			return notFoundOr(err, ErrInventaireNotFound)
		}
		if inventaire.IsCloture() {
			return ErrInventaireCloture
		}

		produit, err := s.produitRepo.FindForUpdate(tx, societeID, req.ProduitID)
		if err != nil {
			return notFoundOr(err, ErrProduitNotFound)
		}

		existing, err := s.inventaireRepo.FindLigne(tx, inventaire.ID, produit.ID)
		switch {
		case err == nil:
			if err := s.inventaireRepo.UpdateQuantiteComptee(tx, existing.ID, req.QuantiteComptee); err != nil {
				return err
			}
			existing.QuantiteComptee = req.QuantiteComptee
			ligne = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			ligne = &model.LigneInventaire{
				InventaireID:    inventaire.ID,
				ProduitID:       produit.ID,
				QuantiteComptee: req.QuantiteComptee,
				QuantiteSysteme: produit.QuantiteEnStock,
			}
			if err := s.inventaireRepo.CreateLigne(tx, ligne); err != nil {
				return err
			}
		default:
			return err
		}
		ligne.Produit = produit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ligne, nil
}

// CloturerInventaire applies every nonzero écart as a compensating movement
// dated at the inventory date, then flips the statut. Either all of it is
// committed or none of it. A SORTIE never exceeds the live balance, so a
// product sold after its line was counted does not block the close.
func (s *inventaireService) CloturerInventaire(societeID, inventaireID uuid.UUID, userID string) (*model.Inventaire, error) {
	var mouvements []*model.MouvementStock
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inventaire, err := s.inventaireRepo.FindForUpdate(tx, societeID, inventaireID)
		if err != nil {
			return notFoundOr(err, ErrInventaireNotFound)
		}
		if inventaire.IsCloture() {
			return ErrInventaireCloture
		}

		lignes, err := s.inventaireRepo.FindLignes(tx, inventaire.ID)
		if err != nil {
			return err
		}

		libelle := "Inventaire " + inventaire.DateInventaire.Format(libelleDateLayout)
		for i := range lignes {
			ecart := lignes[i].Ecart()
			if ecart.IsZero() {
				continue
			}

			produit, err := s.produitRepo.FindForUpdate(tx, societeID, lignes[i].ProduitID)
			if err != nil {
				return notFoundOr(err, ErrProduitNotFound)
			}

			quantite := ecart.Abs()
			// Stock that left after the snapshot cannot be taken out twice.
			if ecart.IsNegative() && quantite.GreaterThan(produit.QuantiteEnStock) {
				s.log.Warnw("inventory adjustment capped at the live balance",
					"inventaire_id", inventaire.ID, "reference", produit.Reference,
					"ecart", ecart, "disponible", produit.QuantiteEnStock)
				quantite = produit.QuantiteEnStock
			}
			if !quantite.IsPositive() {
				continue
			}

			mouvement := &model.MouvementStock{
				SocieteID: societeID,
				ProduitID: produit.ID,
				Type:      model.MouvementEntree,
				Quantite:  quantite,
				Date:      inventaire.DateInventaire,
				Libelle:   libelle,
			}
			if ecart.IsNegative() {
				mouvement.Type = model.MouvementSortie
			}
			mouvement.Touch(userID)

			if err := s.ledger.record(tx, produit, mouvement); err != nil {
				return err
			}
			mouvements = append(mouvements, mouvement)
		}

		affected, err := s.inventaireRepo.MarkCloture(tx, inventaire.ID, userID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInventaireCloture
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.InventairesClotures.Inc()
	for _, m := range mouvements {
		metrics.MouvementsStock.WithLabelValues(string(m.Type)).Inc()
	}
	s.log.Infow("inventaire closed", "societe_id", societeID, "inventaire_id", inventaireID, "ajustements", len(mouvements))

	s.wsHub.Publish(ws.Event{
		Type:      "inventaire_cloture",
		SocieteID: societeID.String(),
		Message:   fmt.Sprintf("Inventaire clôturé, %d ajustement(s)", len(mouvements)),
		Data: map[string]any{
			"inventaire_id": inventaireID,
			"ajustements":   len(mouvements),
		},
	})

	return s.GetInventaire(societeID, inventaireID)
}
