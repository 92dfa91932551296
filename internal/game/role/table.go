package role

import (
	"math/rand/v2"

	"undercover/internal/utils"
)

const (
	// Sentinelas para quando a configuração não cobre o jogador.
	// Unknown é usado quando a lista de papéis existe mas é menor que o
	// número de jogadores; Passenger quando não há lista para o par
	// (modo, quantidade de jogadores).
	Unknown   = "unknown role"
	Passenger = "passenger"

	// HandSize é o número fixo de cartas de mão entregue a todo jogador
	// no momento da distribuição. Não é configurável.
	HandSize = 5
)

// Table mapeia modo -> quantidade alvo de jogadores -> lista ordenada de
// nomes de papéis. A tabela é carregada uma vez na inicialização e tratada
// como imutável a partir daí.
type Table map[string]map[int][]string

// Lookup devolve a lista de papéis configurada para o par (modo, quantidade),
// ou nil se não houver configuração.
func (t Table) Lookup(mode string, totalPlayers int) []string {
	byCount, ok := t[mode]
	if !ok {
		return nil
	}
	return byCount[totalPlayers]
}

// Deal sorteia um papel por assento. A lista configurada é copiada e
// embaralhada; assentos além do tamanho da lista recebem Unknown. Se não há
// lista (ou ela é vazia), todos os assentos recebem Passenger — nunca uma
// mistura de sentinela com papel de tabela.
func Deal(r *rand.Rand, configured []string, seats int) []string {
	dealt := make([]string, seats)

	if len(configured) == 0 {
		for i := range dealt {
			dealt[i] = Passenger
		}
		return dealt
	}

	shuffled := utils.ShuffledCopy(r, configured)
	for i := range dealt {
		if i < len(shuffled) {
			dealt[i] = shuffled[i]
		} else {
			dealt[i] = Unknown
		}
	}
	return dealt
}
