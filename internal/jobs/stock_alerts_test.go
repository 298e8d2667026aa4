package jobs

import (
	"fmt"
	"testing"
	"time"

	"compta-pme-api/internal/model"
	"compta-pme-api/internal/repository"
	"compta-pme-api/internal/service"
	"compta-pme-api/pkg/database"
	"compta-pme-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *StockAlertScanner, service.StockService) {
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

	log := logger.Nop()
	societeRepo := repository.NewSocieteRepo(db)
	stock := service.NewStockService(db, repository.NewProduitRepo(db), repository.NewMouvementRepo(db), nil, log)
	return db, NewStockAlertScanner(societeRepo, stock, log), stock
}

func newSociete(t *testing.T, db *gorm.DB, nom string) uuid.UUID {
	t.Helper()
	owner := &model.User{Email: uuid.NewString() + "@example.com", Name: nom, Role: model.RolePME}
	require.NoError(t, owner.SetPassword("secret123"))
	require.NoError(t, db.Create(owner).Error)

	societe := &model.Societe{Nom: nom, OwnerID: owner.ID}
	require.NoError(t, db.Create(societe).Error)
	return societe.ID
}

func newProduit(t *testing.T, stock service.StockService, societeID uuid.UUID, ref string, seuil *decimal.Decimal) {
	t.Helper()
	_, err := stock.CreateProduit(societeID, &service.ProduitRequest{Reference: ref, Designation: ref, SeuilAlerte: seuil}, "test")
	require.NoError(t, err)
}

func TestScan_CountsAlertsAcrossSocietes(t *testing.T) {
	db, scanner, stock := setup(t)
	five := decimal.NewFromInt(5)
	zero := decimal.Zero

	a := newSociete(t, db, "A")
	b := newSociete(t, db, "B")
	newSociete(t, db, "Empty")

	newProduit(t, stock, a, "A-1", &five)
	newProduit(t, stock, a, "A-2", nil)
	newProduit(t, stock, b, "B-1", &five)
	// A balance equal to the threshold is not an alert.
	newProduit(t, stock, b, "B-2", &zero)

	total, err := scanner.Scan()
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestScan_NoSocietes(t *testing.T) {
	_, scanner, _ := setup(t)

	total, err := scanner.Scan()
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	_, scanner, _ := setup(t)

	_, err := scanner.Start("not a schedule")
	assert.Error(t, err)

	c, err := scanner.Start("@every 1h")
	require.NoError(t, err)
	ctx := c.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
