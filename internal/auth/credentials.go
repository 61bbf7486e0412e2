package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash plain password to hashed password: %w", err)
	}
	return string(hashedPassword), nil
}

// ComparePasswords reports whether plainPwd is the origin of hashedPwd.
// An empty plaintext or a malformed digest yields false, never an error.
func ComparePasswords(hashedPwd string, plainPwd string) bool {
	if plainPwd == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPwd), []byte(plainPwd))
	return err == nil
}
