package character

import (
	"fmt"
	"math/rand/v2"

	"undercover/internal/utils"
)

// Pile é o monte de personagens ainda disponíveis para sorteio.
// Cartas sorteadas são removidas permanentemente; o monte só volta ao
// tamanho original quando é recriado a partir do catálogo.
type Pile []Card

// NewPile cria um monte cheio a partir do catálogo, sem compartilhar memória
// com ele.
func NewPile(catalog []Card) *Pile {
	p := make(Pile, len(catalog))
	copy(p, catalog)
	return &p
}

// Size retorna o número de cartas restantes no monte.
func (p *Pile) Size() int {
	// Verificação para o caso de o ponteiro *Pile ser nil.
	if p == nil {
		return 0
	}
	return len(*p)
}

func (p *Pile) Shuffle(r *rand.Rand) {
	if p.Size() > 1 {
		utils.Shuffle(r, *p)
	}
}

// Draw remove e retorna uma carta uniformemente aleatória do monte.
func (p *Pile) Draw(r *rand.Rand) (Card, error) {
	n := p.Size()
	if n == 0 {
		return Card{}, fmt.Errorf("pile is empty")
	}
	index := r.IntN(n)
	card := (*p)[index]

	// remove a carta do slice
	*p = append((*p)[:index], (*p)[index+1:]...)
	return card, nil
}

// DrawPair remove duas cartas distintas do monte. Duas remoções aleatórias
// sucessivas equivalem em distribuição a sortear dois índices distintos,
// então não há laço de "tenta de novo até sair diferente".
func (p *Pile) DrawPair(r *rand.Rand) ([]Card, error) {
	if p.Size() < 2 {
		return nil, fmt.Errorf("not enough characters in the pile: have %d, need 2", p.Size())
	}

	first, err := p.Draw(r)
	if err != nil {
		return nil, err
	}
	second, err := p.Draw(r)
	if err != nil {
		return nil, err
	}
	return []Card{first, second}, nil
}
