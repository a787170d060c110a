package service

import (
	"crypto/rand"
	"math/big"
)

// Константы генератора slug
const (
	slugLength  = 7
	slugCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"
)

// SlugGenerator генерирует случайные URL-safe идентификаторы.
// Уникальность сам не проверяет — это забота хранилища.
type SlugGenerator interface {
	Generate() (string, error)
}

type slugGenerator struct{}

func NewSlugGenerator() SlugGenerator {
	return &slugGenerator{}
}

// Generate генерирует случайный slug длиной 7 символов
func (g *slugGenerator) Generate() (string, error) {
	result := make([]byte, slugLength)
	for i := 0; i < slugLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slugCharset))))
		if err != nil {
			return "", err
		}
		result[i] = slugCharset[num.Int64()]
	}
	return string(result), nil
}
