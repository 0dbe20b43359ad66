package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Propósitos de token. Un token de restablecimiento no sirve como sesión.
const (
	PurposeSession = "session"
	PurposeReset   = "reset"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token para que RequireRole decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	Role    string `json:"role"` // "admin" | "employee"
	Purpose string `json:"purpose"`
}

// Generate genera un token de sesión firmado que incluye userID y role.
func Generate(secret, userID, role, issuer string, expMinutes int) (string, error) {
	return sign(secret, Claims{UserID: userID, Role: role, Purpose: PurposeSession}, issuer, time.Duration(expMinutes)*time.Minute)
}

// GenerateReset genera un token de corta duración para restablecer la contraseña.
func GenerateReset(secret, userID, issuer string, ttl time.Duration) (string, error) {
	return sign(secret, Claims{UserID: userID, Purpose: PurposeReset}, issuer, ttl)
}

func sign(secret string, claims Claims, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida un token de sesión y devuelve userID y role.
// Retorna error si el token es inválido, expirado, con firma incorrecta o de otro propósito.
func Parse(secret, tokenString string) (userID, role string, err error) {
	claims, err := parseClaims(secret, tokenString)
	if err != nil {
		return "", "", err
	}
	if claims.Purpose != PurposeSession {
		return "", "", fmt.Errorf("jwt: propósito inesperado %q", claims.Purpose)
	}
	return claims.UserID, claims.Role, nil
}

// ParseReset valida un token de restablecimiento y devuelve el userID.
func ParseReset(secret, tokenString string) (string, error) {
	claims, err := parseClaims(secret, tokenString)
	if err != nil {
		return "", err
	}
	if claims.Purpose != PurposeReset {
		return "", fmt.Errorf("jwt: propósito inesperado %q", claims.Purpose)
	}
	return claims.UserID, nil
}

func parseClaims(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
