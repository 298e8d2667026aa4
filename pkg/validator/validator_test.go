package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID       uuid.UUID       `validate:"uuid_required"`
	Email    string          `validate:"required,email"`
	Quantite decimal.Decimal `validate:"decimal_gt0"`
	Seuil    decimal.Decimal `validate:"decimal_gte0"`
}

func TestValidateStructOK(t *testing.T) {
	errs := ValidateStruct(&sample{
		ID:       uuid.New(),
		Email:    "a@b.com",
		Quantite: decimal.NewFromInt(3),
		Seuil:    decimal.Zero,
	})
	assert.Empty(t, errs)
}

func TestValidateStructFailures(t *testing.T) {
	errs := ValidateStruct(&sample{
		Email:    "not-an-email",
		Quantite: decimal.NewFromInt(-1),
		Seuil:    decimal.NewFromInt(-2),
	})
	require.Len(t, errs, 4)

	tags := make([]string, 0, len(errs))
	for _, e := range errs {
		tags = append(tags, e.Tag)
	}
	assert.ElementsMatch(t, []string{"uuid_required", "email", "decimal_gt0", "decimal_gte0"}, tags)
	assert.Equal(t, "Field 'sample.ID' failed on tag 'uuid_required'", errs[0].String())
}
