package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecette_ClientMustBelongToSociete(t *testing.T) {
	f := newFixture(t)
	societeID := f.societe(t, "recette@example.com")
	other := f.societe(t, "recette-other@example.com")

	own, err := f.clients.Create(societeID, &ClientRequest{Nom: "Own"}, "tester")
	require.NoError(t, err)
	foreign, err := f.clients.Create(other, &ClientRequest{Nom: "Foreign"}, "tester")
	require.NoError(t, err)

	date := time.Date(2024, time.April, 2, 10, 0, 0, 0, time.UTC)
	_, err = f.tresorerie.CreateRecette(societeID, &RecetteRequest{Date: date, Montant: dec("150"), Libelle: "Facture", ClientID: &foreign.ID}, "tester")
	assert.ErrorIs(t, err, ErrClientNotFound)

	recette, err := f.tresorerie.CreateRecette(societeID, &RecetteRequest{Date: date, Montant: dec("150"), Libelle: "Facture", ClientID: &own.ID}, "tester")
	require.NoError(t, err)

	list, err := f.tresorerie.ListRecettes(societeID, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, recette.ID, list[0].ID)
	require.NotNil(t, list[0].Client)
	assert.Equal(t, "Own", list[0].Client.Nom)
}

func TestRecette_RejectsNonPositiveMontant(t *testing.T) {
	f := newFixture(t)
	societeID := f.societe(t, "montant@example.com")

	for _, m := range []string{"0", "-10"} {
		_, err := f.tresorerie.CreateRecette(societeID, &RecetteRequest{Date: time.Now(), Montant: dec(m), Libelle: "X"}, "tester")
		assert.Error(t, err, m)
		_, err = f.tresorerie.CreateDepense(societeID, &DepenseRequest{Date: time.Now(), Montant: dec(m), Libelle: "X"}, "tester")
		assert.Error(t, err, m)
	}
}

func TestDepenses_ListByYearAndDelete(t *testing.T) {
	f := newFixture(t)
	societeID := f.societe(t, "depenses@example.com")
	other := f.societe(t, "depenses-other@example.com")

	d2023, err := f.tresorerie.CreateDepense(societeID, &DepenseRequest{Date: time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), Montant: dec("10"), Libelle: "Loyer", Categorie: "Locaux"}, "tester")
	require.NoError(t, err)
	_, err = f.tresorerie.CreateDepense(societeID, &DepenseRequest{Date: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), Montant: dec("20"), Libelle: "Loyer"}, "tester")
	require.NoError(t, err)

	annee := 2023
	list, err := f.tresorerie.ListDepenses(societeID, &annee)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, d2023.ID, list[0].ID)
	assert.Equal(t, "Locaux", list[0].Categorie)

	all, err := f.tresorerie.ListDepenses(societeID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.ErrorIs(t, f.tresorerie.DeleteDepense(other, d2023.ID), ErrDepenseNotFound)
	require.NoError(t, f.tresorerie.DeleteDepense(societeID, d2023.ID))
	assert.ErrorIs(t, f.tresorerie.DeleteDepense(societeID, d2023.ID), ErrDepenseNotFound)
}
