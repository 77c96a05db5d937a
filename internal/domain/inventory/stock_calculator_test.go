package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/inventory"
)

func TestNextQuantity_SumaYResta(t *testing.T) {
	got, err := inventory.NextQuantity(4, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got)

	got, err = inventory.NextQuantity(4, -4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got, "llegar exactamente a cero es válido")
}

func TestNextQuantity_NegativoEsViolacionDeInvariante(t *testing.T) {
	got, err := inventory.NextQuantity(4, -10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
	assert.Equal(t, int64(4), got, "en error se conserva la cantidad actual")
}

func TestSeedQuantity_NuncaNegativa(t *testing.T) {
	assert.Equal(t, int64(0), inventory.SeedQuantity(-3))
	assert.Equal(t, int64(0), inventory.SeedQuantity(0))
	assert.Equal(t, int64(7), inventory.SeedQuantity(7))
}
