package service

import (
	"fmt"
	"testing"
	"time"

	"compta-pme-api/internal/model"
	"compta-pme-api/internal/repository"
	"compta-pme-api/pkg/database"
	"compta-pme-api/pkg/jwt"
	"compta-pme-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	societeRepo repository.SocieteRepository
	produitRepo repository.ProduitRepository
	tokens      *jwt.Manager

	auth        AuthService
	users       UserService
	clients     ClientService
	budgets     BudgetService
	tresorerie  TresorerieService
	stock       StockService
	inventaires InventaireService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.ConnectDB(dsn, false, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.Nop()

	userRepo := repository.NewUserRepo(db)
	societeRepo := repository.NewSocieteRepo(db)
	clientRepo := repository.NewClientRepo(db)
	budgetRepo := repository.NewBudgetRepo(db)
	tresorerieRepo := repository.NewTresorerieRepo(db)
	produitRepo := repository.NewProduitRepo(db)
	mouvementRepo := repository.NewMouvementRepo(db)
	inventaireRepo := repository.NewInventaireRepo(db)
	tokens := jwt.NewManager("test-secret-test-secret-test-secret", time.Hour)

	return &fixture{
		db:          db,
		userRepo:    userRepo,
		societeRepo: societeRepo,
		produitRepo: produitRepo,
		tokens:      tokens,
		auth:        NewAuthService(db, userRepo, societeRepo, tokens, log),
		users:       NewUserService(userRepo),
		clients:     NewClientService(clientRepo),
		budgets:     NewBudgetService(budgetRepo, tresorerieRepo),
		tresorerie:  NewTresorerieService(tresorerieRepo, clientRepo),
		stock:       NewStockService(db, produitRepo, mouvementRepo, nil, log),
		inventaires: NewInventaireService(db, inventaireRepo, produitRepo, mouvementRepo, nil, log),
	}
}

// societe registers a PME owner and returns the created société id.
func (f *fixture) societe(t *testing.T, email string) uuid.UUID {
	t.Helper()
	resp, err := f.auth.RegisterPme(&RegisterPmeRequest{
		RegisterExpertRequest: RegisterExpertRequest{
			Email:    email,
			Password: "secret123",
			Name:     "Owner",
		},
		SocieteNom: "Societe " + email,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Societe)
	return resp.Societe.ID
}

func (f *fixture) produit(t *testing.T, societeID uuid.UUID, reference string) *model.Produit {
	t.Helper()
	p, err := f.stock.CreateProduit(societeID, &ProduitRequest{Reference: reference, Designation: "Produit " + reference}, "tester")
	require.NoError(t, err)
	return p
}

func (f *fixture) mouvement(societeID, produitID uuid.UUID, typ model.TypeMouvement, quantite string) (*model.MouvementStock, error) {
	return f.stock.CreateMouvement(societeID, &MouvementRequest{
		ProduitID: produitID,
		Type:      typ,
		Quantite:  decimal.RequireFromString(quantite),
	}, "tester")
}

func (f *fixture) balance(t *testing.T, societeID, produitID uuid.UUID) decimal.Decimal {
	t.Helper()
	p, err := f.stock.GetProduit(societeID, produitID)
	require.NoError(t, err)
	return p.QuantiteEnStock
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
