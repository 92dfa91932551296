package network

import (
	"encoding/json"
)

// Message é o envelope padrão para toda a comunicação, nos dois sentidos.
// O campo Type roteia a mensagem; o Payload carrega os dados específicos em
// JSON bruto, decodificado só por quem conhece o tipo.
type Message struct {
	Type    string          `json:"type"`              // Ex: "joinRoom", "roomStatus"
	Payload json.RawMessage `json:"payload,omitempty"` // Dados específicos do tipo.
}

// NewMessage monta um envelope serializando o payload dado. Um payload nil
// produz uma mensagem só de sinal, sem campo payload.
func NewMessage(msgType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}
