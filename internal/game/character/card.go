package character

// Card é uma carta de personagem do catálogo: um nome e a habilidade
// associada. As cartas são imutáveis; o estado de "já sorteada" vive no Pile.
type Card struct {
	Name  string `json:"name"`
	Skill string `json:"skill"`
}
