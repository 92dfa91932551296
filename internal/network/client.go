package network

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por uma resposta de pong do cliente.
	pongWait = 60 * time.Second

	// Frequência com que enviamos pings para o cliente. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Tamanho do buffer do canal de saída de cada cliente.
	sendBufferSize = 256
)

// Client é a representação de uma conexão ativa do ponto de vista do
// servidor. Ele agrupa a conexão WebSocket e o canal de saída.
type Client struct {
	// Identificador da conexão, usado apenas em logs.
	id string

	// A conexão real com o cliente.
	conn *websocket.Conn

	// Uma referência ao Hub central. O cliente usa isso para se (des)registrar.
	hub *Hub

	// Canal bufferizado para mensagens de saída. O Hub coloca as mensagens
	// aqui e a goroutine writeLoop do cliente as envia. O buffer evita que o
	// Hub bloqueie se o cliente estiver lento.
	send chan Message

	log *zap.Logger
}

// ID retorna o identificador da conexão.
func (c *Client) ID() string {
	return c.id
}

// Send expõe o canal de saída do cliente, só para escrita.
func (c *Client) Send() chan<- Message {
	return c.send
}

func (c *Client) readLoop() {
	// Garante que a limpeza ocorrerá quando o loop terminar.
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	// Configura o deadline e o handler de pong; cada pong recebido renova o
	// deadline de leitura, mantendo a conexão viva.
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				// Frame que não é um envelope JSON válido: registra e segue
				// lendo. A conexão só termina em erro de rede ou fechamento.
				c.log.Warn("malformed frame from client",
					zap.String("clientId", c.id),
					zap.Error(err),
				)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("unexpected close from client",
					zap.String("clientId", c.id),
					zap.Error(err),
				)
			}
			break
		}

		// Empacota a mensagem com o cliente que a enviou e entrega ao Hub.
		c.hub.incoming <- clientMessage{client: c, msg: msg}
	}
}

// writeLoop bombeia mensagens do canal 'send' do cliente para a conexão.
func (c *Client) writeLoop() {
	// Ticker para enviar pings periódicos para o cliente.
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// O canal 'send' foi fechado pelo Hub: o cliente foi desregistrado.
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Warn("write failed, closing client",
					zap.String("clientId", c.id),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Se o ping falhar, a conexão está morta.
			}
		}
	}
}
