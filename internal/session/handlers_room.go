package session

import (
	"encoding/json"

	"undercover/internal/game/character"
	"undercover/internal/game/environment"
	"undercover/internal/game/role"
	"undercover/internal/session/message"

	"go.uber.org/zap"
)

// Uma operação por tipo de mensagem de entrada. Cada operação roda até o
// fim antes da próxima mensagem ser processada; nenhuma aplica estado pela
// metade. Pré-condições violadas que o protocolo trata como no-op silencioso
// são sempre registradas no log (o cliente não recebe nada, de propósito).

func handleCreateRoom(h *GameHandler, sender message.Sender, payload json.RawMessage) {
	var req struct {
		Mode         string `json:"mode"`
		TotalPlayers int    `json:"totalPlayers"`
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		h.log.Warn("invalid createRoom payload", zap.Error(err))
		return
	}

	// createRoom sempre vence: derruba qualquer sessão em andamento e
	// recomeça do zero, com o monte de personagens cheio.
	h.room.Reset(req.Mode, req.TotalPlayers, h.catalog)
	h.log.Info("room created",
		zap.String("mode", req.Mode),
		zap.Int("totalPlayers", req.TotalPlayers),
	)

	h.broadcast(message.CreateRoomCreated(h.room))
}

func handleJoinRoom(h *GameHandler, sender message.Sender, payload json.RawMessage) {
	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		h.log.Warn("invalid joinRoom payload", zap.Error(err))
		return
	}

	if !h.room.Created {
		h.log.Debug("join ignored, room not created", zap.String("nickname", req.Nickname))
		return
	}
	if h.room.IsFull() {
		h.log.Debug("join ignored, room is full", zap.String("nickname", req.Nickname))
		return
	}
	if h.room.HasNickname(req.Nickname) {
		h.unicast(sender, message.CreateErrorResponse("nickname already in use"))
		return
	}

	player := h.room.AddPlayer(req.Nickname)
	h.log.Info("player joined",
		zap.String("nickname", player.Nickname),
		zap.Int("seat", player.ID),
	)

	// Primeiro o unicast com o assento: a identidade do cliente vem SÓ
	// daqui. O broadcast que segue também chega ao solicitante, que deve
	// ignorar o player embutido nele.
	h.unicast(sender, message.CreatePlayerIdentity(player.ID))
	h.broadcast(message.CreatePlayerJoined(player, h.room))
}

// handleStartGame não mexe em estado nenhum: é só o sinal, incondicional,
// para todos os clientes avançarem para a seleção de personagem.
func handleStartGame(h *GameHandler, sender message.Sender, payload json.RawMessage) {
	h.broadcast(message.CreateStartGame())
}

func handleRequestCharacters(h *GameHandler, sender message.Sender, payload json.RawMessage) {
	pool := h.room.AvailableCharacters
	if pool.Size() < 2 {
		h.unicast(sender, message.CreateErrorResponse("not enough characters, contact the host"))
		return
	}

	characters, err := pool.DrawPair(h.rng)
	if err != nil {
		// Não deveria acontecer depois da checagem de tamanho acima.
		h.log.Error("character draw failed", zap.Error(err))
		h.unicast(sender, message.CreateErrorResponse("not enough characters, contact the host"))
		return
	}
	h.log.Debug("characters drawn", zap.Int("remaining", pool.Size()))

	// Só o solicitante fica sabendo das opções; o resto da sala não é
	// informado do esvaziamento do monte.
	h.unicast(sender, message.CreateAssignCharacters(characters))
}

func handleConfirmCharacter(h *GameHandler, sender message.Sender, payload json.RawMessage) {
	var req struct {
		Order     int    `json:"order"`
		Character string `json:"character"`
		Skill     string `json:"skill"`
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		h.log.Warn("invalid confirmCharacter payload", zap.Error(err))
		return
	}

	player := h.room.PlayerByOrder(req.Order)
	if player == nil {
		h.log.Debug("confirm ignored, unknown order", zap.Int("order", req.Order))
		return
	}

	player.Character = &character.Card{Name: req.Character, Skill: req.Skill}
	skill := req.Skill
	player.Skill = &skill

	// Reconfirmar troca a escolha mas não conta de novo: ConfirmedPlayers
	// anda uma vez por assento.
	if !player.Confirmed {
		player.Confirmed = true
		h.room.ConfirmedPlayers++
	}
	h.log.Info("character confirmed",
		zap.Int("order", req.Order),
		zap.String("character", req.Character),
	)

	// O broadcast carrega o elenco filtrado (só confirmados), não o completo.
	h.broadcast(message.CreatePlayerConfirmed(h.room.ConfirmedRoster()))
}

func handleRequestRoomStatus(h *GameHandler, sender message.Sender, payload json.RawMessage) {
	h.unicast(sender, message.CreateRoomStatusDetailed(
		h.room,
		h.room.Players,
		h.room.EnvironmentCards,
	))
}

// handleStartDealing é a transição de uma vez só da sessão: sorteia os
// papéis, entrega as cartas de mão e compõe as cartas de ambiente. Invocar
// de novo re-sorteia tudo (mesma estrutura, outro resultado).
func handleStartDealing(h *GameHandler, sender message.Sender, payload json.RawMessage) {
	room := h.room

	configured := h.roles.Lookup(room.Mode, room.TotalPlayers)
	dealt := role.Deal(h.rng, configured, len(room.Players))
	for i, p := range room.Players {
		name := dealt[i]
		hand := role.HandSize
		p.Role = &name
		p.HandCards = &hand
	}

	room.EnvironmentCards = environment.Compose(h.rng, room.Mode, room.TotalPlayers)
	h.log.Info("dealing started",
		zap.String("mode", room.Mode),
		zap.Int("players", len(room.Players)),
		zap.Int("environmentCards", len(room.EnvironmentCards)),
	)

	h.broadcast(message.CreateGameStarted(room.Players, room.EnvironmentCards))
	// Segundo sinal, nunca fundido com o primeiro: manda o painel do
	// anfitrião navegar para a tela de distribuição.
	h.broadcast(message.CreateStartDealing())
}

func (h *GameHandler) registerRoomHandlers() {
	h.router["createRoom"] = handleCreateRoom
	h.router["joinRoom"] = handleJoinRoom
	h.router["startGame"] = handleStartGame
	h.router["requestCharacters"] = handleRequestCharacters
	h.router["confirmCharacter"] = handleConfirmCharacter
	h.router["requestRoomStatus"] = handleRequestRoomStatus
	h.router["startDealing"] = handleStartDealing
}
