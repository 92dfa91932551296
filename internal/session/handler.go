package session

import (
	"encoding/json"
	"math/rand/v2"

	"undercover/internal/game/character"
	"undercover/internal/game/role"
	"undercover/internal/network"
	"undercover/internal/session/message"

	"go.uber.org/zap"
)

// CommandHandlerFunc define a assinatura de todas as funções que lidam com
// comandos de entrada. Elas recebem o handler (contexto da sessão), quem
// pediu e o payload bruto da mensagem.
type CommandHandlerFunc func(h *GameHandler, sender message.Sender, payload json.RawMessage)

// GameHandler é o coordenador da sessão: implementa network.EventHandler,
// é dono da sala singleton e dos catálogos, e produz todas as mensagens de
// saída. Ele roda inteiramente dentro da goroutine do Hub, uma mensagem por
// vez, então não precisa de lock próprio.
type GameHandler struct {
	room    *Room
	catalog []character.Card
	roles   role.Table

	// Conexões atualmente abertas. O conjunto muda em connect/disconnect e
	// o broadcast itera sobre ele; tudo na mesma goroutine.
	clients map[message.Sender]bool

	router map[string]CommandHandlerFunc

	rng *rand.Rand
	log *zap.Logger
}

// NewGameHandler monta o coordenador com os catálogos já carregados e uma
// fonte de aleatoriedade própria (injetável nos testes).
func NewGameHandler(catalog []character.Card, roles role.Table, rng *rand.Rand, log *zap.Logger) *GameHandler {
	h := &GameHandler{
		room:    NewRoom(),
		catalog: catalog,
		roles:   roles,
		clients: make(map[message.Sender]bool),
		router:  make(map[string]CommandHandlerFunc),
		rng:     rng,
		log:     log,
	}
	h.registerRoomHandlers()
	return h
}

// Room expõe a sala para o health check e para os testes.
func (h *GameHandler) Room() *Room {
	return h.room
}

// --- Implementação da interface network.EventHandler ---

func (h *GameHandler) OnConnect(c *network.Client) {
	h.connect(c)
}

func (h *GameHandler) OnDisconnect(c *network.Client) {
	h.disconnect(c)
}

func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) {
	h.dispatch(c, msg)
}

// connect registra a conexão e a sincroniza imediatamente com a verdade
// atual: todo cliente, inclusive quem chega tarde ao processo, recebe o
// snapshot da sala antes de qualquer outra coisa.
func (h *GameHandler) connect(sender message.Sender) {
	h.clients[sender] = true
	h.unicast(sender, message.CreateRoomStatus(h.room))
}

// disconnect só remove a conexão do conjunto de broadcast. Não existe
// retomada de sessão: os unicasts futuros dessa conexão se perdem até o
// cliente reconectar e pedir requestRoomStatus.
func (h *GameHandler) disconnect(sender message.Sender) {
	delete(h.clients, sender)
}

// dispatch roteia a mensagem pelo campo type. Tipo desconhecido é no-op no
// protocolo; fica só o log.
func (h *GameHandler) dispatch(sender message.Sender, msg network.Message) {
	handler, found := h.router[msg.Type]
	if !found {
		h.log.Debug("ignoring unknown message type", zap.String("type", msg.Type))
		return
	}
	handler(h, sender, msg.Payload)
}

// unicast entrega uma mensagem apenas ao solicitante.
func (h *GameHandler) unicast(sender message.Sender, msg network.Message) {
	h.deliver(sender, msg)
}

// broadcast entrega a mesma mensagem a todas as conexões abertas.
func (h *GameHandler) broadcast(msg network.Message) {
	for sender := range h.clients {
		h.deliver(sender, msg)
	}
}

// deliver nunca bloqueia a goroutine do Hub: se o buffer de saída do
// cliente está cheio, a mensagem é descartada e registrada. O read/write
// loop do cliente lento vai falhar e desregistrá-lo em seguida.
func (h *GameHandler) deliver(sender message.Sender, msg network.Message) {
	select {
	case sender.Send() <- msg:
	default:
		h.log.Warn("dropping outbound message, send buffer full",
			zap.String("type", msg.Type),
		)
	}
}
