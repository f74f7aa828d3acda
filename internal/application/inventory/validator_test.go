package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests ValidateMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateMovement(t *testing.T) {
	cases := []struct {
		name       string
		input      inventory.MovementInput
		wantField  string // vacío = el movimiento es válido
	}{
		{
			name:      "cantidad cero siempre rechazada",
			input:     inventory.MovementInput{Type: entity.MovementTypeReceive, Quantity: decimal.Zero, ToLocationID: "loc-a"},
			wantField: "quantity",
		},
		{
			name:      "tipo desconocido rechazado",
			input:     inventory.MovementInput{Type: "teleport", Quantity: dec("1")},
			wantField: "type",
		},
		{
			name:  "receive válido con destino",
			input: inventory.MovementInput{Type: entity.MovementTypeReceive, Quantity: dec("5"), ToLocationID: "loc-a"},
		},
		{
			name:      "receive sin destino rechazado",
			input:     inventory.MovementInput{Type: entity.MovementTypeReceive, Quantity: dec("5")},
			wantField: "to_location_id",
		},
		{
			name:  "ship válido con origen",
			input: inventory.MovementInput{Type: entity.MovementTypeShip, Quantity: dec("-5"), FromLocationID: "loc-a"},
		},
		{
			name:      "ship sin origen rechazado",
			input:     inventory.MovementInput{Type: entity.MovementTypeShip, Quantity: dec("-5")},
			wantField: "from_location_id",
		},
		{
			name:  "transfer válido con ambas ubicaciones",
			input: inventory.MovementInput{Type: entity.MovementTypeTransfer, Quantity: dec("4"), FromLocationID: "loc-a", ToLocationID: "loc-b"},
		},
		{
			name:      "transfer sin origen rechazado",
			input:     inventory.MovementInput{Type: entity.MovementTypeTransfer, Quantity: dec("4"), ToLocationID: "loc-b"},
			wantField: "from_location_id",
		},
		{
			name:      "transfer sin destino rechazado",
			input:     inventory.MovementInput{Type: entity.MovementTypeTransfer, Quantity: dec("4"), FromLocationID: "loc-a"},
			wantField: "to_location_id",
		},
		{
			name:      "transfer con cantidad negativa rechazado",
			input:     inventory.MovementInput{Type: entity.MovementTypeTransfer, Quantity: dec("-4"), FromLocationID: "loc-a", ToLocationID: "loc-b"},
			wantField: "quantity",
		},
		{
			name:  "adjust positivo con destino válido",
			input: inventory.MovementInput{Type: entity.MovementTypeAdjust, Quantity: dec("3"), ToLocationID: "loc-a"},
		},
		{
			name:      "adjust positivo sin destino rechazado",
			input:     inventory.MovementInput{Type: entity.MovementTypeAdjust, Quantity: dec("3")},
			wantField: "to_location_id",
		},
		{
			name:  "adjust negativo con origen válido",
			input: inventory.MovementInput{Type: entity.MovementTypeAdjust, Quantity: dec("-3"), FromLocationID: "loc-a"},
		},
		{
			name:      "adjust negativo sin origen rechazado",
			input:     inventory.MovementInput{Type: entity.MovementTypeAdjust, Quantity: dec("-3")},
			wantField: "from_location_id",
		},
		{
			name:  "count válido con destino",
			input: inventory.MovementInput{Type: entity.MovementTypeCount, Quantity: dec("2"), ToLocationID: "loc-a"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := inventory.ValidateMovement(tc.input)
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "ValidationError debe desenvolver a ErrInvalidInput")

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}
