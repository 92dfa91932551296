package session

import (
	"undercover/internal/game/character"
)

// Modos de jogo aceitos na criação da sala. O modo escolhe a tabela de
// papéis e a receita das cartas de ambiente.
const (
	ModeNormal = "normal"
	ModeInner  = "inner"
)

// Player é um assento ocupado na sala. ID e Order nascem iguais (número de
// sequência de entrada, começando em 1), mas são campos separados de
// propósito: ID é identidade, Order é a chave de busca das atualizações.
type Player struct {
	ID        int             `json:"id"`
	Nickname  string          `json:"nickname"`
	Order     int             `json:"order"`
	Character *character.Card `json:"character"`
	Skill     *string         `json:"skill"`
	Confirmed bool            `json:"confirmed"`
	Role      *string         `json:"role"`
	HandCards *int            `json:"handCards"`
}

// Room é o registro autoritativo único da sessão em andamento. Uma sala por
// processo; toda mutação passa pelo GameHandler, dentro da goroutine do Hub.
type Room struct {
	Created             bool            `json:"created"`
	Mode                string          `json:"mode"`
	TotalPlayers        int             `json:"totalPlayers"`
	JoinedPlayers       int             `json:"joinedPlayers"`
	ConfirmedPlayers    int             `json:"confirmedPlayers"`
	Players             []*Player       `json:"players"`
	AvailableCharacters *character.Pile `json:"availableCharacters"`
	EnvironmentCards    []string        `json:"environmentCards"`
}

// NewRoom devolve uma sala ainda não criada: todo snapshot enviado antes do
// primeiro createRoom mostra created=false e coleções vazias.
func NewRoom() *Room {
	return &Room{
		Players:             []*Player{},
		AvailableCharacters: character.NewPile(nil),
		EnvironmentCards:    []string{},
	}
}

// Reset reinicializa a sala por inteiro. Não existe reset parcial: qualquer
// createRoom derruba a sessão anterior, recoloca o monte de personagens
// completo e zera todos os contadores. Último a escrever, vence.
func (r *Room) Reset(mode string, totalPlayers int, catalog []character.Card) {
	r.Created = true
	r.Mode = mode
	r.TotalPlayers = totalPlayers
	r.JoinedPlayers = 0
	r.ConfirmedPlayers = 0
	r.Players = []*Player{}
	r.AvailableCharacters = character.NewPile(catalog)
	r.EnvironmentCards = []string{}
}

// IsFull informa se a admissão já atingiu o teto fixado na criação.
func (r *Room) IsFull() bool {
	return r.JoinedPlayers >= r.TotalPlayers
}

// HasNickname procura o apelido entre os jogadores admitidos.
// Comparação exata, sensível a maiúsculas.
func (r *Room) HasNickname(nickname string) bool {
	for _, p := range r.Players {
		if p.Nickname == nickname {
			return true
		}
	}
	return false
}

// AddPlayer admite um jogador no próximo assento livre. O chamador é
// responsável por checar IsFull e HasNickname antes.
func (r *Room) AddPlayer(nickname string) *Player {
	seat := len(r.Players) + 1
	p := &Player{
		ID:       seat,
		Nickname: nickname,
		Order:    seat,
	}
	r.Players = append(r.Players, p)
	r.JoinedPlayers = len(r.Players)
	return p
}

// PlayerByOrder localiza um jogador pela chave Order, ou nil.
// Busca linear: a ordem dos assentos não ajuda na busca e a sala é pequena.
func (r *Room) PlayerByOrder(order int) *Player {
	for _, p := range r.Players {
		if p.Order == order {
			return p
		}
	}
	return nil
}

// ConfirmedRoster devolve apenas os jogadores que já travaram a escolha de
// personagem, na ordem dos assentos.
func (r *Room) ConfirmedRoster() []*Player {
	confirmed := []*Player{}
	for _, p := range r.Players {
		if p.Confirmed {
			confirmed = append(confirmed, p)
		}
	}
	return confirmed
}
