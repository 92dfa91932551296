package character

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCatalog lê o catálogo de personagens de um arquivo de definição.
// O formato é orientado a linhas: "nome|habilidade", uma carta por linha.
// Linhas vazias e comentários começando com '#' são ignorados.
func LoadCatalog(path string) ([]Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open character catalog: %w", err)
	}
	defer f.Close()

	cards, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse character catalog %s: %w", path, err)
	}
	return cards, nil
}

// ParseCatalog faz o parse do formato de definição a partir de qualquer Reader.
func ParseCatalog(r io.Reader) ([]Card, error) {
	var cards []Card

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, skill, ok := strings.Cut(line, "|")
		if !ok {
			return nil, fmt.Errorf("invalid character entry at line %d: %q", lineNum, line)
		}
		cards = append(cards, Card{
			Name:  strings.TrimSpace(name),
			Skill: strings.TrimSpace(skill),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("character catalog has no entries")
	}
	return cards, nil
}
