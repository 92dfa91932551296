package environment

import (
	"math/rand/v2"

	"undercover/internal/utils"
)

// Catálogos fixos das cartas de ambiente. Diferente dos personagens e dos
// papéis, estes nomes fazem parte das regras e não vêm de arquivo externo.
var bigCards = []string{
	"storm",
	"blackout",
	"landslide",
	"wildfire",
	"flood",
}

const (
	smallCard      = "drizzle"
	noEffectCard   = "calm night"
	smallCopies    = 3
	noEffectCopies = 4
)

// ModeNormal é o modo que, com exatamente 5 jogadores, usa a receita
// reduzida de cartas grandes.
const ModeNormal = "normal"

// Compose monta o conjunto de cartas de ambiente da sessão e o devolve já
// embaralhado. A receita depende da configuração da sala:
//
//	normal com 5 jogadores: 1 carta grande + 3 pequenas + 4 sem efeito
//	qualquer outro caso:    2 cartas grandes distintas + 2 pequenas + 4 sem efeito
//
// Nas duas receitas o resultado tem sempre 8 cartas.
func Compose(r *rand.Rand, mode string, totalPlayers int) []string {
	big := utils.ShuffledCopy(r, bigCards)

	var cards []string
	if mode == ModeNormal && totalPlayers == 5 {
		cards = append(cards, big[0])
		for i := 0; i < smallCopies; i++ {
			cards = append(cards, smallCard)
		}
	} else {
		cards = append(cards, big[0], big[1])
		cards = append(cards, smallCard, smallCard)
	}
	for i := 0; i < noEffectCopies; i++ {
		cards = append(cards, noEffectCard)
	}

	utils.Shuffle(r, cards)
	return cards
}

// BigCards expõe uma cópia do catálogo de cartas grandes, para os testes e
// para o painel do anfitrião.
func BigCards() []string {
	out := make([]string, len(bigCards))
	copy(out, bigCards)
	return out
}

// SmallCard e NoEffectCard expõem os nomes das cartas repetidas.
func SmallCard() string    { return smallCard }
func NoEffectCard() string { return noEffectCard }
