package rfid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func TestDecodeFrame_Objeto(t *testing.T) {
	reads, err := DecodeFrame([]byte(`{"epc":"e2003412abcd","antenna":2,"rssi":-61.5}`), now)
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, "E2003412ABCD", reads[0].EPC)
	assert.Equal(t, 2, reads[0].Antenna)
	assert.Equal(t, -61.5, reads[0].RSSI)
	assert.Equal(t, now, reads[0].At)
}

func TestDecodeFrame_CamposNumericosComoString(t *testing.T) {
	reads, err := DecodeFrame([]byte(`{"EPC":"AABB","antenna":"3","rssi":"-40","ts":"1715333400000"}`), now)
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, 3, reads[0].Antenna)
	assert.Equal(t, -40.0, reads[0].RSSI)
	assert.Equal(t, time.UnixMilli(1715333400000), reads[0].At)
}

func TestDecodeFrame_ArregloDescartaInvalidos(t *testing.T) {
	reads, err := DecodeFrame([]byte(`[{"epc":"AA01"},{"epc":"zz"},{"foo":1},"texto",{"epc":"aa-02"}]`), now)
	require.NoError(t, err)
	require.Len(t, reads, 2)
	assert.Equal(t, "AA01", reads[0].EPC)
	assert.Equal(t, "AA02", reads[1].EPC)
}

func TestDecodeFrame_TextoPlano(t *testing.T) {
	reads, err := DecodeFrame([]byte("  e280 1160 \n"), now)
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, "E2801160", reads[0].EPC)
}

func TestDecodeFrame_TextoPlanoSoloDigitos(t *testing.T) {
	reads, err := DecodeFrame([]byte("300833B2"), now)
	require.NoError(t, err)
	assert.Equal(t, "300833B2", reads[0].EPC)

	reads, err = DecodeFrame([]byte("30083300"), now)
	require.NoError(t, err, "un EPC solo con dígitos sigue siendo texto plano")
	assert.Equal(t, "30083300", reads[0].EPC)
}

func TestDecodeFrame_Errores(t *testing.T) {
	for _, in := range []string{"", "   ", "hola", `{"epc":`, `{"epc":""}`, `42`, `1234567`, `true`, `"AA01AA01"`, `[]`} {
		_, err := DecodeFrame([]byte(in), now)
		assert.Error(t, err, "trama %q", in)
	}
}
