package session

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"testing"

	"undercover/internal/game/character"
	"undercover/internal/game/environment"
	"undercover/internal/game/role"
	"undercover/internal/network"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeClient implementa message.Sender com um canal bufferizado, igual ao
// cliente real, só que sem rede.
type fakeClient struct {
	ch chan network.Message
}

func newFakeClient() *fakeClient {
	return &fakeClient{ch: make(chan network.Message, 64)}
}

func (f *fakeClient) Send() chan<- network.Message { return f.ch }

// drain coleta, na ordem, tudo que já foi enfileirado para o cliente.
func (f *fakeClient) drain() []network.Message {
	var out []network.Message
	for {
		select {
		case msg := <-f.ch:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func testCatalog(n int) []character.Card {
	cards := make([]character.Card, n)
	for i := range cards {
		cards[i] = character.Card{
			Name:  fmt.Sprintf("char-%d", i),
			Skill: fmt.Sprintf("skill-%d", i),
		}
	}
	return cards
}

func newTestHandler(nChars int, roles role.Table) *GameHandler {
	rng := rand.New(rand.NewPCG(99, 1))
	return NewGameHandler(testCatalog(nChars), roles, rng, zap.NewNop())
}

// connectClient registra um cliente e descarta o snapshot inicial.
func connectClient(h *GameHandler) *fakeClient {
	c := newFakeClient()
	h.connect(c)
	c.drain()
	return c
}

func dispatch(h *GameHandler, c *fakeClient, msgType string, payload any) {
	var raw json.RawMessage
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}
	h.dispatch(c, network.Message{Type: msgType, Payload: raw})
}

func payloadMap(t *testing.T, msg network.Message) map[string]any {
	t.Helper()
	var m map[string]any
	assert.NoError(t, json.Unmarshal(msg.Payload, &m))
	return m
}

func createRoom(h *GameHandler, c *fakeClient, mode string, total int) {
	dispatch(h, c, "createRoom", map[string]any{"mode": mode, "totalPlayers": total})
}

func joinRoom(h *GameHandler, c *fakeClient, nickname string) {
	dispatch(h, c, "joinRoom", map[string]any{"nickname": nickname})
}

// --- conexão ---

func TestConnectSendsRoomSnapshot(t *testing.T) {
	h := newTestHandler(4, nil)
	c := newFakeClient()

	h.connect(c)

	msgs := c.drain()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "roomStatus", msgs[0].Type)

	payload := payloadMap(t, msgs[0])
	room := payload["room"].(map[string]any)
	assert.Equal(t, false, room["created"])
	// O snapshot de conexão não carrega os campos duplicados.
	assert.NotContains(t, payload, "players")
	assert.NotContains(t, payload, "environmentCards")
}

func TestDisconnectStopsBroadcasts(t *testing.T) {
	h := newTestHandler(4, nil)
	host := connectClient(h)
	other := connectClient(h)

	h.disconnect(other)
	createRoom(h, host, ModeNormal, 5)

	assert.NotEmpty(t, host.drain())
	assert.Empty(t, other.drain())
}

func TestDispatchIgnoresUnknownType(t *testing.T) {
	h := newTestHandler(4, nil)
	c := connectClient(h)

	h.dispatch(c, network.Message{Type: "definitelyNotACommand"})

	assert.Empty(t, c.drain())
}

func TestDispatchIgnoresMalformedPayload(t *testing.T) {
	h := newTestHandler(4, nil)
	c := connectClient(h)

	h.dispatch(c, network.Message{Type: "joinRoom", Payload: json.RawMessage(`{"nickname":`)})

	assert.Empty(t, c.drain())
	assert.Equal(t, 0, h.room.JoinedPlayers)
}

// --- createRoom ---

func TestCreateRoomBroadcastsSnapshot(t *testing.T) {
	h := newTestHandler(4, nil)
	host := connectClient(h)
	other := connectClient(h)

	createRoom(h, host, ModeNormal, 5)

	for _, c := range []*fakeClient{host, other} {
		msgs := c.drain()
		assert.Len(t, msgs, 1)
		assert.Equal(t, "roomCreated", msgs[0].Type)
		room := payloadMap(t, msgs[0])["room"].(map[string]any)
		assert.Equal(t, true, room["created"])
		assert.Equal(t, "normal", room["mode"])
		assert.Equal(t, float64(5), room["totalPlayers"])
	}
}

func TestCreateRoomOverwritesLiveSession(t *testing.T) {
	h := newTestHandler(4, nil)
	host := connectClient(h)

	createRoom(h, host, ModeNormal, 5)
	joinRoom(h, host, "alice")
	host.drain()

	// Sem trava nenhuma: o segundo createRoom derruba a sessão com
	// jogadores dentro e recomeça do zero.
	createRoom(h, host, ModeInner, 6)

	assert.Equal(t, ModeInner, h.room.Mode)
	assert.Equal(t, 0, h.room.JoinedPlayers)
	assert.Empty(t, h.room.Players)
	assert.Equal(t, 4, h.room.AvailableCharacters.Size())
}

// --- joinRoom ---

func TestJoinRoomSendsIdentityThenBroadcast(t *testing.T) {
	h := newTestHandler(4, nil)
	host := connectClient(h)
	joiner := connectClient(h)

	createRoom(h, host, ModeNormal, 5)
	host.drain()
	joiner.drain()

	joinRoom(h, joiner, "alice")

	msgs := joiner.drain()
	assert.Len(t, msgs, 2)

	// Primeiro o unicast com o assento, depois o broadcast com a sala.
	assert.Equal(t, "playerJoined", msgs[0].Type)
	identity := payloadMap(t, msgs[0])
	assert.Equal(t, float64(1), identity["playerId"])
	assert.NotContains(t, identity, "room")

	assert.Equal(t, "playerJoined", msgs[1].Type)
	broadcast := payloadMap(t, msgs[1])
	player := broadcast["player"].(map[string]any)
	assert.Equal(t, "alice", player["nickname"])
	room := broadcast["room"].(map[string]any)
	assert.Equal(t, float64(1), room["joinedPlayers"])

	// Quem não entrou recebe só o broadcast.
	hostMsgs := host.drain()
	assert.Len(t, hostMsgs, 1)
	assert.Contains(t, payloadMap(t, hostMsgs[0]), "room")
}

func TestJoinRoomBeforeCreateIsSilentlyIgnored(t *testing.T) {
	h := newTestHandler(4, nil)
	c := connectClient(h)

	joinRoom(h, c, "alice")

	assert.Empty(t, c.drain())
	assert.Equal(t, 0, h.room.JoinedPlayers)
}

func TestJoinRoomAdmissionCutoff(t *testing.T) {
	h := newTestHandler(8, nil)
	host := connectClient(h)
	createRoom(h, host, ModeNormal, 2)
	host.drain()

	// Com totalPlayers = N, exatamente N admissões passam; a (N+1)-ésima é
	// no-op silencioso.
	for _, name := range []string{"a", "b", "c"} {
		joinRoom(h, host, name)
	}

	assert.Equal(t, 2, h.room.JoinedPlayers)
	assert.Len(t, h.room.Players, 2)
	assert.Equal(t, "a", h.room.Players[0].Nickname)
	assert.Equal(t, "b", h.room.Players[1].Nickname)
}

func TestJoinRoomDuplicateNickname(t *testing.T) {
	h := newTestHandler(4, nil)
	host := connectClient(h)
	dup := connectClient(h)

	createRoom(h, host, ModeNormal, 5)
	joinRoom(h, host, "alice")
	host.drain()
	dup.drain()

	joinRoom(h, dup, "alice")

	msgs := dup.drain()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "error", msgs[0].Type)
	assert.Equal(t, "nickname already in use", payloadMap(t, msgs[0])["message"])

	// Nenhuma mudança de estado e nenhum broadcast para os outros.
	assert.Equal(t, 1, h.room.JoinedPlayers)
	assert.Empty(t, host.drain())
}

// --- startGame ---

func TestStartGameBroadcastsUnconditionally(t *testing.T) {
	h := newTestHandler(4, nil)
	a := connectClient(h)
	b := connectClient(h)

	dispatch(h, a, "startGame", nil)

	for _, c := range []*fakeClient{a, b} {
		msgs := c.drain()
		assert.Len(t, msgs, 1)
		assert.Equal(t, "startGame", msgs[0].Type)
		assert.Empty(t, msgs[0].Payload)
	}
}

// --- requestCharacters ---

func TestRequestCharactersDrawsTwoDistinct(t *testing.T) {
	h := newTestHandler(6, nil)
	host := connectClient(h)
	other := connectClient(h)
	createRoom(h, host, ModeNormal, 5)
	host.drain()
	other.drain()

	dispatch(h, host, "requestCharacters", nil)

	msgs := host.drain()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "assignCharacters", msgs[0].Type)

	var payload struct {
		Characters []character.Card `json:"characters"`
	}
	assert.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Len(t, payload.Characters, 2)
	assert.NotEqual(t, payload.Characters[0].Name, payload.Characters[1].Name)

	// O monte encolhe em exatamente 2 e mais ninguém fica sabendo.
	assert.Equal(t, 4, h.room.AvailableCharacters.Size())
	assert.Empty(t, other.drain())
}

func TestRequestCharactersNeverRepeatsAcrossCalls(t *testing.T) {
	h := newTestHandler(6, nil)
	host := connectClient(h)
	createRoom(h, host, ModeNormal, 5)
	host.drain()

	seen := make(map[string]bool)
	for call := 0; call < 3; call++ {
		dispatch(h, host, "requestCharacters", nil)
		msgs := host.drain()
		assert.Len(t, msgs, 1)

		var payload struct {
			Characters []character.Card `json:"characters"`
		}
		assert.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
		for _, card := range payload.Characters {
			assert.False(t, seen[card.Name], "card %s offered twice", card.Name)
			seen[card.Name] = true
		}
	}
	assert.Equal(t, 0, h.room.AvailableCharacters.Size())
}

func TestRequestCharactersInsufficientPool(t *testing.T) {
	h := newTestHandler(3, nil)
	host := connectClient(h)
	createRoom(h, host, ModeNormal, 5)
	host.drain()

	dispatch(h, host, "requestCharacters", nil)
	host.drain()
	assert.Equal(t, 1, h.room.AvailableCharacters.Size())

	dispatch(h, host, "requestCharacters", nil)

	msgs := host.drain()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "error", msgs[0].Type)
	assert.Equal(t, "not enough characters, contact the host", payloadMap(t, msgs[0])["message"])
	// O monte não muda em pedidos recusados.
	assert.Equal(t, 1, h.room.AvailableCharacters.Size())
}

// --- confirmCharacter ---

func TestConfirmCharacterUpdatesPlayerAndBroadcastsRoster(t *testing.T) {
	h := newTestHandler(6, nil)
	host := connectClient(h)
	createRoom(h, host, ModeNormal, 5)
	joinRoom(h, host, "alice")
	joinRoom(h, host, "bob")
	host.drain()

	dispatch(h, host, "confirmCharacter", map[string]any{
		"order":     2,
		"character": "Doctor",
		"skill":     "Heals",
	})

	bob := h.room.PlayerByOrder(2)
	assert.True(t, bob.Confirmed)
	assert.Equal(t, &character.Card{Name: "Doctor", Skill: "Heals"}, bob.Character)
	assert.Equal(t, "Heals", *bob.Skill)
	assert.Equal(t, 1, h.room.ConfirmedPlayers)

	msgs := host.drain()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "playerConfirmed", msgs[0].Type)

	// O broadcast carrega só os confirmados, não o elenco inteiro.
	players := payloadMap(t, msgs[0])["players"].([]any)
	assert.Len(t, players, 1)
	assert.Equal(t, "bob", players[0].(map[string]any)["nickname"])
}

func TestConfirmCharacterUnknownOrderIsSilent(t *testing.T) {
	h := newTestHandler(6, nil)
	host := connectClient(h)
	createRoom(h, host, ModeNormal, 5)
	joinRoom(h, host, "alice")
	host.drain()

	dispatch(h, host, "confirmCharacter", map[string]any{
		"order":     42,
		"character": "Doctor",
		"skill":     "Heals",
	})

	assert.Empty(t, host.drain())
	assert.Equal(t, 0, h.room.ConfirmedPlayers)
}

func TestReconfirmationDoesNotDoubleCount(t *testing.T) {
	h := newTestHandler(6, nil)
	host := connectClient(h)
	createRoom(h, host, ModeNormal, 5)
	joinRoom(h, host, "alice")
	host.drain()

	confirm := func(name string) {
		dispatch(h, host, "confirmCharacter", map[string]any{
			"order":     1,
			"character": name,
			"skill":     "s",
		})
	}

	confirm("Doctor")
	confirm("Teacher")

	// A reconfirmação troca a escolha mas o contador anda uma vez só.
	assert.Equal(t, 1, h.room.ConfirmedPlayers)
	assert.Equal(t, "Teacher", h.room.PlayerByOrder(1).Character.Name)
}

// --- requestRoomStatus ---

func TestRequestRoomStatusEchoesDuplicatedFields(t *testing.T) {
	h := newTestHandler(6, nil)
	host := connectClient(h)
	other := connectClient(h)
	createRoom(h, host, ModeNormal, 5)
	joinRoom(h, host, "alice")
	host.drain()
	other.drain()

	dispatch(h, host, "requestRoomStatus", nil)

	msgs := host.drain()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "roomStatus", msgs[0].Type)

	payload := payloadMap(t, msgs[0])
	assert.Contains(t, payload, "room")
	// A resposta detalhada repete players e environmentCards fora do room,
	// por conveniência do painel do anfitrião.
	assert.Contains(t, payload, "players")
	room := payload["room"].(map[string]any)
	assert.Equal(t, float64(1), room["joinedPlayers"])

	// Resposta é unicast: ninguém mais recebe.
	assert.Empty(t, other.drain())
}

// --- startDealing ---

func fivePlayerTable() role.Table {
	return role.Table{
		"normal": {
			5: {"undercover", "undercover", "civilian", "civilian", "civilian"},
		},
	}
}

func TestStartDealingScenarioNormalFive(t *testing.T) {
	h := newTestHandler(16, fivePlayerTable())
	host := connectClient(h)
	createRoom(h, host, ModeNormal, 5)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		joinRoom(h, host, name)
	}
	host.drain()

	dispatch(h, host, "startDealing", nil)

	// Todo jogador presente ganha papel e 5 cartas de mão.
	counts := map[string]int{}
	for _, p := range h.room.Players {
		assert.NotNil(t, p.Role)
		counts[*p.Role]++
		assert.NotNil(t, p.HandCards)
		assert.Equal(t, 5, *p.HandCards)
	}
	assert.Equal(t, map[string]int{"undercover": 2, "civilian": 3}, counts)

	// Receita normal+5: 8 cartas, {1 grande, 3 pequenas, 4 sem efeito}.
	cards := h.room.EnvironmentCards
	assert.Len(t, cards, 8)
	small, noEffect := 0, 0
	bigNames := map[string]bool{}
	for _, name := range cards {
		switch name {
		case environment.SmallCard():
			small++
		case environment.NoEffectCard():
			noEffect++
		default:
			bigNames[name] = true
		}
	}
	assert.Equal(t, 3, small)
	assert.Equal(t, 4, noEffect)
	assert.Len(t, bigNames, 1)

	// Os dois broadcasts, nesta ordem, nunca fundidos.
	msgs := host.drain()
	assert.Len(t, msgs, 2)
	assert.Equal(t, "gameStarted", msgs[0].Type)
	assert.Equal(t, "startDealing", msgs[1].Type)

	payload := payloadMap(t, msgs[0])
	assert.Len(t, payload["players"].([]any), 5)
	assert.Len(t, payload["environmentCards"].([]any), 8)
}

func TestStartDealingDefaultEnvironmentRecipe(t *testing.T) {
	h := newTestHandler(16, nil)
	host := connectClient(h)
	createRoom(h, host, ModeInner, 6)
	joinRoom(h, host, "a")
	joinRoom(h, host, "b")
	host.drain()

	dispatch(h, host, "startDealing", nil)

	cards := h.room.EnvironmentCards
	assert.Len(t, cards, 8)
	small, noEffect := 0, 0
	bigNames := map[string]bool{}
	for _, name := range cards {
		switch name {
		case environment.SmallCard():
			small++
		case environment.NoEffectCard():
			noEffect++
		default:
			bigNames[name] = true
		}
	}
	assert.Equal(t, 2, small)
	assert.Equal(t, 4, noEffect)
	assert.Len(t, bigNames, 2)
}

func TestStartDealingWithoutTableDealsPassengers(t *testing.T) {
	h := newTestHandler(16, nil)
	host := connectClient(h)
	createRoom(h, host, ModeNormal, 4)
	joinRoom(h, host, "a")
	joinRoom(h, host, "b")
	host.drain()

	dispatch(h, host, "startDealing", nil)

	// Sem tabela para (modo, quantidade), todo mundo vira passageiro —
	// nunca uma mistura de sentinela com papel de tabela.
	for _, p := range h.room.Players {
		assert.NotNil(t, p.Role)
		assert.Equal(t, role.Passenger, *p.Role)
		assert.Equal(t, 5, *p.HandCards)
	}
}

func TestStartDealingOverflowSeatsGetUnknownRole(t *testing.T) {
	table := role.Table{
		"normal": {5: {"undercover", "civilian", "civilian"}},
	}
	h := newTestHandler(16, table)
	host := connectClient(h)
	createRoom(h, host, ModeNormal, 5)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		joinRoom(h, host, name)
	}
	host.drain()

	dispatch(h, host, "startDealing", nil)

	assert.Equal(t, role.Unknown, *h.room.Players[3].Role)
	assert.Equal(t, role.Unknown, *h.room.Players[4].Role)
	for _, p := range h.room.Players[:3] {
		assert.NotEqual(t, role.Unknown, *p.Role)
	}
}

func TestLateJoinerAfterDealingHasNoRole(t *testing.T) {
	h := newTestHandler(16, fivePlayerTable())
	host := connectClient(h)
	createRoom(h, host, ModeNormal, 5)
	joinRoom(h, host, "a")
	joinRoom(h, host, "b")
	dispatch(h, host, "startDealing", nil)
	host.drain()

	// A distribuição é um evento único, não uma política contínua: quem
	// entra depois fica sem papel.
	joinRoom(h, host, "late")

	late := h.room.PlayerByOrder(3)
	assert.NotNil(t, late)
	assert.Nil(t, late.Role)
	assert.Nil(t, late.HandCards)
}
