package utils

import (
	"math/rand/v2"
)

// Shuffle embaralha o slice no lugar usando Fisher-Yates.
// É uma função pura no sentido de que toda a aleatoriedade vem do *rand.Rand
// fornecido pelo chamador, o que permite testes determinísticos com seed fixa.
func Shuffle[T any](r *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// ShuffledCopy devolve uma cópia embaralhada do slice, sem tocar no original.
// Útil quando a lista de origem é um catálogo imutável.
func ShuffledCopy[T any](r *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	Shuffle(r, out)
	return out
}
