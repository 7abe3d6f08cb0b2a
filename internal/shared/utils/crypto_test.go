package utils

import (
	"strings"
	"testing"
)

func TestGenerateSaltEsUnico(t *testing.T) {
	a, err := GenerateSalt()
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateSalt()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("dos sales consecutivas idénticas")
	}
	if a == "" {
		t.Error("sal vacía")
	}
}

func TestVerifyPasswordSHA512Legado(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatal(err)
	}
	hash := HashPasswordSHA512("secreto123", salt)

	if !VerifyPassword("secreto123", salt, hash) {
		t.Error("contraseña correcta rechazada (SHA512)")
	}
	if VerifyPassword("otro", salt, hash) {
		t.Error("contraseña incorrecta aceptada (SHA512)")
	}
}

func TestVerifyPasswordBcrypt(t *testing.T) {
	hash, err := HashPasswordBcrypt("secreto123")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("hash bcrypt con prefijo inesperado: %s", hash[:4])
	}

	// La sal almacenada se ignora para cuentas bcrypt
	if !VerifyPassword("secreto123", "sal-irrelevante", hash) {
		t.Error("contraseña correcta rechazada (bcrypt)")
	}
	if VerifyPassword("otro", "sal-irrelevante", hash) {
		t.Error("contraseña incorrecta aceptada (bcrypt)")
	}
}
