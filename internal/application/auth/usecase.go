// Package auth implementa la sesión del dashboard: una contraseña compartida
// (configurada por entorno) que al validarse emite un JWT de rol admin.
// Sin contraseña configurada el API queda abierto, como el dashboard original.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
	pkgjwt "github.com/Tanmay-Jain0221/med-inventory/pkg/jwt"
)

// Config configuración de la sesión.
type Config struct {
	Password   string // hash bcrypt ("$2...") o texto plano; vacío = abierto
	JWTSecret  string
	ExpMinutes int
	Issuer     string
}

// UseCase valida la contraseña compartida y emite tokens.
type UseCase struct {
	cfg Config
}

// NewUseCase construye el caso de uso.
func NewUseCase(cfg Config) *UseCase {
	return &UseCase{cfg: cfg}
}

// Open indica que no hay contraseña configurada (API sin protección).
func (uc *UseCase) Open() bool {
	return uc.cfg.Password == ""
}

// Login valida la contraseña y devuelve un JWT de sesión.
func (uc *UseCase) Login(password string) (string, error) {
	if uc.Open() {
		return "", domain.ErrInvalidInput
	}
	if !uc.matches(password) {
		return "", domain.ErrUnauthorized
	}
	return pkgjwt.Generate(uc.cfg.JWTSecret, "admin", uc.cfg.Issuer, uc.cfg.ExpMinutes)
}

// matches acepta la contraseña configurada como hash bcrypt o como texto plano
// (comparación de tiempo constante en ambos casos).
func (uc *UseCase) matches(password string) bool {
	if strings.HasPrefix(uc.cfg.Password, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(uc.cfg.Password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(uc.cfg.Password), []byte(password)) == 1
}
