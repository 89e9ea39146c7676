package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateID returns a short url-safe identifier.
func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateResetToken returns the opaque token emailed for a password reset.
// Long enough that guessing is impractical within the token's lifetime.
func GenerateResetToken() string {
	token, err := gonanoid.Generate(idAlphabet, 32)
	if err != nil {
		return ""
	}
	return token
}

// GenerateSerial returns the serial number printed on issued certificates.
func GenerateSerial() string {
	id, err := gonanoid.Generate("0123456789ABCDEFGHJKLMNPQRSTUVWXYZ", 10)
	if err != nil {
		return ""
	}
	return "CERT-" + id
}
