package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wonny/epscreen/internal/contracts"
)

// WriteJSON writes ranked rows as an indented array of records
func WriteJSON(w io.Writer, rows []contracts.ScoreRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Records(rows)); err != nil {
		return fmt.Errorf("encode report json: %w", err)
	}
	return nil
}
