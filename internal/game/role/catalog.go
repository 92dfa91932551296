package role

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadTable lê a tabela de papéis de um arquivo de definição.
// Formato orientado a linhas: "modo|quantidade|papel1,papel2,...".
// Linhas vazias e comentários com '#' são ignorados.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open role catalog: %w", err)
	}
	defer f.Close()

	table, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse role catalog %s: %w", path, err)
	}
	return table, nil
}

// ParseTable faz o parse do formato de definição a partir de qualquer Reader.
func ParseTable(r io.Reader) (Table, error) {
	table := make(Table)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid role entry at line %d: %q", lineNum, line)
		}

		mode := strings.TrimSpace(fields[0])
		count, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil || count <= 0 {
			return nil, fmt.Errorf("invalid player count at line %d: %q", lineNum, fields[1])
		}

		var roles []string
		for _, name := range strings.Split(fields[2], ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("empty role name at line %d", lineNum)
			}
			roles = append(roles, name)
		}

		if table[mode] == nil {
			table[mode] = make(map[int][]string)
		}
		table[mode][count] = roles
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("role catalog has no entries")
	}
	return table, nil
}
