package utils

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// La base heredada guarda contraseñas como SHA512(password+salt) en hex.
// Las cuentas nuevas se crean con bcrypt; la verificación soporta ambos formatos.

// GenerateSalt genera un salt aleatorio de 32 bytes (64 caracteres hex)
func GenerateSalt() (string, error) {
	saltBytes := make([]byte, 32)
	_, err := rand.Read(saltBytes)
	if err != nil {
		return "", fmt.Errorf("no se pudo generar el salt: %w", err)
	}

	return hex.EncodeToString(saltBytes), nil
}

// HashPasswordSHA512 calcula el hash heredado SHA512(password+salt)
func HashPasswordSHA512(password, salt string) string {
	hasher := sha512.New()
	hasher.Write([]byte(password + salt))
	return hex.EncodeToString(hasher.Sum(nil))
}

// HashPasswordBcrypt genera un hash bcrypt para cuentas nuevas
func HashPasswordBcrypt(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("no se pudo generar el hash bcrypt: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword verifica una contraseña contra el hash almacenado,
// detectando el formato (bcrypt o SHA512 heredado con salt).
func VerifyPassword(password, salt, storedHash string) bool {
	if strings.HasPrefix(storedHash, "$2a$") || strings.HasPrefix(storedHash, "$2b$") {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
	}

	calculated := HashPasswordSHA512(password, salt)
	return subtle.ConstantTimeCompare([]byte(calculated), []byte(storedHash)) == 1
}
