package network

// EventHandler é a interface que conecta a camada de rede com a lógica do
// jogo. O código de sessão (fora deste pacote) implementa esta interface.
type EventHandler interface {
	// OnConnect é chamado quando um novo cliente se conecta com sucesso.
	OnConnect(c *Client)

	// OnDisconnect é chamado quando um cliente se desconecta.
	OnDisconnect(c *Client)

	// OnMessage é chamado quando uma nova mensagem chega de um cliente.
	OnMessage(c *Client, msg Message)
}
