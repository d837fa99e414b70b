package s1_universe

import (
	"fmt"
	"os"
	"strings"

	"github.com/wonny/epscreen/internal/contracts"
)

// ParseTickers splits raw ticker-list text on newlines then commas.
// Tokens are trimmed and empties dropped; order and duplicates are kept.
func ParseTickers(text string) []string {
	tickers := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		for _, tok := range strings.Split(line, ",") {
			if t := strings.TrimSpace(tok); t != "" {
				tickers = append(tickers, t)
			}
		}
	}
	return tickers
}

// LoadTickers reads the universe file
// ⭐ SSOT: 유니버스 파일 로드는 여기서만 (실패 시 실행 중단)
func LoadTickers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", contracts.ErrLoadFailure, path, err)
	}
	return ParseTickers(string(data)), nil
}
