package rfid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_Completo(t *testing.T) {
	res := Reconcile(
		[]ExpectedLine{
			{ProductID: "p1", ProductName: "Camisa", Size: "M", Quantity: 1},
			{ProductID: "p1", ProductName: "Camisa", Size: "L", Quantity: 1},
		},
		[]ScannedTag{{EPC: "A1", ProductID: "p1"}, {EPC: "A2", ProductID: "p1"}},
	)
	assert.True(t, res.Complete)
	require.Len(t, res.Matched, 1)
	assert.Equal(t, 2, res.Matched[0].Count)
	assert.Equal(t, "Camisa", res.Matched[0].ProductName)
	assert.Empty(t, res.Missing)
	assert.Empty(t, res.Extra)
}

func TestReconcile_FaltantesSobrantesYSinAsignar(t *testing.T) {
	res := Reconcile(
		[]ExpectedLine{
			{ProductID: "p1", ProductName: "Camisa", Quantity: 3},
			{ProductID: "p2", ProductName: "Pantalón", Quantity: 1},
		},
		[]ScannedTag{
			{EPC: "A1", ProductID: "p1"},
			{EPC: "A1", ProductID: "p1"}, // repetida
			{EPC: "B1", ProductID: "p2"},
			{EPC: "B2", ProductID: "p2"},
			{EPC: "C1", ProductID: "p3", ProductName: "Gorra"},
			{EPC: "ZZ"},
		},
	)
	assert.False(t, res.Complete)

	require.Len(t, res.Matched, 2)
	assert.Equal(t, 1, res.Matched[0].Count)
	assert.Equal(t, 1, res.Matched[1].Count)

	require.Len(t, res.Missing, 1)
	assert.Equal(t, "p1", res.Missing[0].ProductID)
	assert.Equal(t, 2, res.Missing[0].Count)

	require.Len(t, res.Extra, 2)
	assert.Equal(t, "p2", res.Extra[0].ProductID)
	assert.Equal(t, []string{"B2"}, res.Extra[0].EPCs)
	assert.Equal(t, "p3", res.Extra[1].ProductID)
	assert.Equal(t, 0, res.Extra[1].Expected)

	assert.Equal(t, []string{"ZZ"}, res.UnassignedEPCs)
}

func TestReconcile_SinLecturas(t *testing.T) {
	res := Reconcile([]ExpectedLine{{ProductID: "p1", Quantity: 2}}, nil)
	assert.False(t, res.Complete)
	assert.Empty(t, res.Matched)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, 2, res.Missing[0].Count)
}
