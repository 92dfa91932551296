package network

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server é a estrutura principal do servidor de rede: o endpoint WebSocket
// em /ws, o health check em /health e, opcionalmente, os arquivos estáticos
// da apresentação na raiz.
type Server struct {
	hub *Hub
	log *zap.Logger
}

// upgrader armazena as configurações para promover uma conexão HTTP para
// WebSocket. CheckOrigin liberado: o servidor roda na mesma origem dos
// arquivos estáticos e não há autenticação além do apelido.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer aceita um EventHandler e o injeta no Hub. Este é o ponto de
// injeção da lógica do jogo.
func NewServer(handler EventHandler, log *zap.Logger) *Server {
	return &Server{
		hub: NewHub(handler, log),
		log: log,
	}
}

// wsHandler promove a requisição HTTP para uma conexão WebSocket e registra
// o novo cliente no Hub.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		hub:  s.hub,
		send: make(chan Message, sendBufferSize),
		log:  s.log,
	}

	client.hub.register <- client

	go client.writeLoop()
	go client.readLoop()
}

// Listen inicia a goroutine do Hub e o servidor HTTP. staticDir vazio
// desabilita o file server; health nil desabilita o endpoint /health.
// A chamada bloqueia até o servidor HTTP terminar.
func (s *Server) Listen(address, staticDir string, health http.Handler) error {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	if health != nil {
		mux.Handle("/health", health)
	}
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	s.log.Info("websocket server listening",
		zap.String("address", address),
		zap.String("staticDir", staticDir),
	)
	return http.ListenAndServe(address, mux)
}
