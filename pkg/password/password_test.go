package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashYCompare(t *testing.T) {
	h := Hasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("secreto1")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto1", hash)
	assert.True(t, h.Compare(hash, "secreto1"))
	assert.False(t, h.Compare(hash, "secreto2"))
	assert.False(t, h.Compare("no-es-bcrypt", "secreto1"))
}
