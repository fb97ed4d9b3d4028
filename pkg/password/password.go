// Package password agrupa hashing bcrypt y la política de contraseñas.
package password

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinLength longitud mínima aceptada.
const MinLength = 8

// ErrPolicy la contraseña no cumple la política.
var ErrPolicy = errors.New("password does not meet the policy")

// Hash genera el hash bcrypt con el costo por defecto.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

// dummyHash hash de relleno para que un hash vacío cueste lo mismo que uno real.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("andromeda-crm"), bcrypt.DefaultCost)
	if err != nil {
		return nil
	}
	return h
})

// Verify compara texto plano contra el hash. Hash vacío o corrupto = false.
// Con hash vacío (usuario inexistente) igual se ejecuta una comparación bcrypt completa.
func Verify(hash, plain string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(plain))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// CheckPolicy exige longitud mínima, una mayúscula, un dígito y un carácter especial.
// El error lista todas las reglas incumplidas.
func CheckPolicy(plain string) error {
	var upper, digit, special bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	var missing []string
	if utf8.RuneCountInString(plain) < MinLength {
		missing = append(missing, fmt.Sprintf("at least %d characters", MinLength))
	}
	if !upper {
		missing = append(missing, "one uppercase letter")
	}
	if !digit {
		missing = append(missing, "one digit")
	}
	if !special {
		missing = append(missing, "one special character")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: password must contain %s", ErrPolicy, strings.Join(missing, ", "))
	}
	return nil
}
