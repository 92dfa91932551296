package network

import (
	"go.uber.org/zap"
)

// clientMessage empacota uma mensagem com o cliente que a enviou.
// O Hub precisa de ambos para passar ao EventHandler.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub mantém o conjunto de clientes ativos e roteia eventos para o handler.
// Toda mutação de estado do jogo acontece dentro da goroutine do Hub, uma
// mensagem por vez: é isso que dispensa locks na camada de sessão.
type Hub struct {
	// Clientes registrados. Acessado SOMENTE pela goroutine do Hub.
	clients map[*Client]bool

	// Canal para registrar novos clientes.
	register chan *Client

	// Canal para desregistrar clientes.
	unregister chan *Client

	// Canal de entrada: as goroutines readLoop dos clientes publicam aqui.
	incoming chan clientMessage

	// O handler da lógica do jogo que processará os eventos.
	handler EventHandler

	log *zap.Logger
}

// NewHub cria, inicializa e retorna um novo Hub.
func NewHub(handler EventHandler, log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		handler:    handler,
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("client connected",
				zap.String("clientId", client.id),
				zap.Int("totalClients", len(h.clients)),
			)
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// Fechar o canal 'send' é o sinal para a goroutine
				// writeLoop daquele cliente parar.
				close(client.send)
				h.log.Info("client disconnected",
					zap.String("clientId", client.id),
					zap.Int("totalClients", len(h.clients)),
				)
				h.handler.OnDisconnect(client)
			}

		case clientMsg := <-h.incoming:
			// O Hub não se importa com o conteúdo da mensagem; apenas a
			// delega para a lógica do jogo processar.
			h.handler.OnMessage(clientMsg.client, clientMsg.msg)
		}
	}
}
