package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 10
)

// GenerateID gera o ID das contas cadastradas manualmente
func GenerateID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}
