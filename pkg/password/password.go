// Package password hashea y verifica contraseñas con bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// MinLength longitud mínima aceptada para una contraseña.
const MinLength = 6

// Hasher bcrypt con costo configurable (tests usan bcrypt.MinCost).
type Hasher struct {
	Cost int
}

// Default hasher con bcrypt.DefaultCost.
func Default() Hasher {
	return Hasher{Cost: bcrypt.DefaultCost}
}

// Hash devuelve el hash bcrypt de plain.
func (h Hasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare indica si plain corresponde al hash.
func (h Hasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
