package message

// Isso aqui são as mensagens que vão no sentido servidor -> cliente.
// Um construtor por tipo de saída do protocolo; o roteamento de entrada
// fica no pacote session.

import (
	"undercover/internal/network"
)

// Sender define a interface para qualquer destino que pode receber uma
// mensagem. Desacopla este pacote (e os testes da sessão) da implementação
// concreta *network.Client.
type Sender interface {
	Send() chan<- network.Message
}

type roomStatusPayload struct {
	Room any `json:"room"`
	// Campos redundantes com o conteúdo de Room, presentes apenas na
	// resposta de requestRoomStatus, por conveniência do painel do
	// anfitrião. No snapshot de conexão eles ficam de fora.
	Players          any `json:"players,omitempty"`
	EnvironmentCards any `json:"environmentCards,omitempty"`
}

type roomCreatedPayload struct {
	Room any `json:"room"`
}

type playerIdentityPayload struct {
	PlayerID int `json:"playerId"`
}

type playerJoinedPayload struct {
	Player any `json:"player"`
	Room   any `json:"room"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type assignCharactersPayload struct {
	Characters any `json:"characters"`
}

type playerConfirmedPayload struct {
	Players any `json:"players"`
}

type gameStartedPayload struct {
	Players          any `json:"players"`
	EnvironmentCards any `json:"environmentCards"`
}

// CreateRoomStatus é o snapshot enviado a toda conexão recém-aberta.
func CreateRoomStatus(room any) network.Message {
	return mustMessage("roomStatus", roomStatusPayload{Room: room})
}

// CreateRoomStatusDetailed é a resposta de requestRoomStatus, com os campos
// duplicados que o painel do anfitrião espera receber.
func CreateRoomStatusDetailed(room, players, environmentCards any) network.Message {
	return mustMessage("roomStatus", roomStatusPayload{
		Room:             room,
		Players:          players,
		EnvironmentCards: environmentCards,
	})
}

func CreateRoomCreated(room any) network.Message {
	return mustMessage("roomCreated", roomCreatedPayload{Room: room})
}

// CreatePlayerIdentity é o playerJoined unicast: é só daqui que o cliente
// aprende o próprio assento.
func CreatePlayerIdentity(playerID int) network.Message {
	return mustMessage("playerJoined", playerIdentityPayload{PlayerID: playerID})
}

// CreatePlayerJoined é o playerJoined broadcast, com o jogador admitido e a
// sala inteira.
func CreatePlayerJoined(player, room any) network.Message {
	return mustMessage("playerJoined", playerJoinedPayload{Player: player, Room: room})
}

func CreateErrorResponse(errorMsg string) network.Message {
	return mustMessage("error", errorPayload{Message: errorMsg})
}

func CreateAssignCharacters(characters any) network.Message {
	return mustMessage("assignCharacters", assignCharactersPayload{Characters: characters})
}

// CreatePlayerConfirmed carrega apenas os jogadores já confirmados, não o
// elenco completo.
func CreatePlayerConfirmed(players any) network.Message {
	return mustMessage("playerConfirmed", playerConfirmedPayload{Players: players})
}

// CreateStartGame é o sinal, sem payload, para os clientes avançarem para a
// seleção de personagem.
func CreateStartGame() network.Message {
	return mustMessage("startGame", nil)
}

func CreateGameStarted(players, environmentCards any) network.Message {
	return mustMessage("gameStarted", gameStartedPayload{
		Players:          players,
		EnvironmentCards: environmentCards,
	})
}

// CreateStartDealing é o segundo sinal da distribuição, separado de
// propósito: ele só manda o painel do anfitrião trocar de tela.
func CreateStartDealing() network.Message {
	return mustMessage("startDealing", nil)
}

// mustMessage engole o erro de serialização: os payloads daqui são structs
// nossas, sempre serializáveis.
func mustMessage(msgType string, payload any) network.Message {
	msg, _ := network.NewMessage(msgType, payload)
	return msg
}
