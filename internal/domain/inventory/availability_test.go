package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func componente(id, qtyRequired string) *entity.BOMComponent {
	return &entity.BOMComponent{ComponentItemID: id, QtyRequired: dec(qtyRequired)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests MaxBuildable
// ──────────────────────────────────────────────────────────────────────────────

// BOM vacía: cero ensambles, sin detalle por componente.
func TestMaxBuildable_BOMVacia(t *testing.T) {
	max, perComponent := inventory.MaxBuildable(nil, nil)
	assert.True(t, max.IsZero())
	assert.Empty(t, perComponent)
}

// 2 de X con 10 disponibles y 3 de Y con 9 disponibles: min(5, 3) = 3,
// con Y como componente limitante.
func TestMaxBuildable_MinimoSobreComponentes(t *testing.T) {
	components := []*entity.BOMComponent{
		componente("item-x", "2"),
		componente("item-y", "3"),
	}
	available := map[string]decimal.Decimal{
		"item-x": dec("10"),
		"item-y": dec("9"),
	}

	max, perComponent := inventory.MaxBuildable(components, available)

	assert.True(t, dec("3").Equal(max), "max = %s", max)
	require.Len(t, perComponent, 2)

	assert.True(t, dec("5").Equal(perComponent[0].MaxFromComponent))
	assert.False(t, perComponent[0].Limiting)
	assert.True(t, dec("3").Equal(perComponent[1].MaxFromComponent))
	assert.True(t, perComponent[1].Limiting)
}

// La razón disponible/requerido se trunca hacia abajo, nunca se redondea.
func TestMaxBuildable_TruncaHaciaAbajo(t *testing.T) {
	components := []*entity.BOMComponent{componente("item-x", "3")}
	available := map[string]decimal.Decimal{"item-x": dec("11")}

	max, _ := inventory.MaxBuildable(components, available)
	assert.True(t, dec("3").Equal(max), "floor(11/3) = 3, no 4")
}

// Un componente sin stock fuerza el máximo a cero.
func TestMaxBuildable_ComponenteSinStock(t *testing.T) {
	components := []*entity.BOMComponent{
		componente("item-x", "1"),
		componente("item-y", "2"),
	}
	available := map[string]decimal.Decimal{
		"item-x": dec("100"),
		"item-y": dec("0"),
	}

	max, perComponent := inventory.MaxBuildable(components, available)
	assert.True(t, max.IsZero())
	assert.True(t, perComponent[1].Limiting)
}

// Requeridos fraccionales: floor(10 / 2.5) = 4.
func TestMaxBuildable_RequeridoFraccional(t *testing.T) {
	components := []*entity.BOMComponent{componente("item-x", "2.5")}
	available := map[string]decimal.Decimal{"item-x": dec("10")}

	max, _ := inventory.MaxBuildable(components, available)
	assert.True(t, dec("4").Equal(max))
}
