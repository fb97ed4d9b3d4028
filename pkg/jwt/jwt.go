package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token. Cada uno se firma con su propio secreto y se valida contra el tipo esperado.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	TypeReset   = "password_reset"
)

// ErrInvalidToken se devuelve ante cualquier fallo de validación (firma, expiración, tipo, sub).
var ErrInvalidToken = errors.New("jwt: token inválido")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Username y Admin solo viajan en access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
	Type     string `json:"typ"`
}

// Remaining tiempo de vida restante del token (0 si ya expiró o no tiene exp).
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Time.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Generate firma los claims con HS256. Completa jti, iat y exp si no vienen.
func Generate(secret string, claims Claims, ttl time.Duration) (string, *Claims, error) {
	if secret == "" {
		return "", nil, fmt.Errorf("jwt: secret vacío")
	}
	if claims.Type == "" {
		return "", nil, fmt.Errorf("jwt: tipo de token requerido")
	}
	now := time.Now()
	if claims.ID == "" {
		claims.ID = uuid.New().String()
	}
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("jwt: firmar token: %w", err)
	}
	return signed, &claims, nil
}

// GenerateAccess token de acceso con sub, username y admin.
func GenerateAccess(secret, issuer, userID, username string, admin bool, ttl time.Duration) (string, *Claims, error) {
	return Generate(secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: userID},
		Username:         username,
		Admin:            admin,
		Type:             TypeAccess,
	}, ttl)
}

// GenerateRefresh token de refresco: solo sub.
func GenerateRefresh(secret, issuer, userID string, ttl time.Duration) (string, *Claims, error) {
	return Generate(secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: userID},
		Type:             TypeRefresh,
	}, ttl)
}

// GenerateReset token de un solo uso para restablecer contraseña.
func GenerateReset(secret, issuer, userID string, ttl time.Duration) (string, *Claims, error) {
	return Generate(secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: userID},
		Type:             TypeReset,
	}, ttl)
}

// Parse valida firma HMAC, expiración, tipo y sub. Todo fallo se reporta envuelto en ErrInvalidToken.
func Parse(secret, tokenString, expectedType string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: secret vacío", ErrInvalidToken)
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: claims inválidos", ErrInvalidToken)
	}
	if claims.Type != expectedType {
		return nil, fmt.Errorf("%w: tipo %q, se esperaba %q", ErrInvalidToken, claims.Type, expectedType)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub vacío", ErrInvalidToken)
	}
	return claims, nil
}
