package selfplay

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header names the columns: game index, the compact state split into
// its fields, and the final winner of the game (0 for capped games).
var Header = []string{
	"game", "turn", "remaining_one", "remaining_two",
	"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8",
	"winner",
}

// Writer dumps game records as training rows, one row per position.
type Writer struct {
	csv         *csv.Writer
	wroteHeader bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

func (that *Writer) Write(record *Record) error {
	if !that.wroteHeader {
		if err := that.csv.Write(Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		that.wroteHeader = true
	}

	game := strconv.Itoa(record.Game)
	winner := strconv.Itoa(int(record.Winner))

	for _, state := range record.States {
		row := make([]string, 0, len(Header))
		row = append(row, game)
		row = append(row, strings.Split(state.SerializeCompact(), ",")...)
		row = append(row, winner)

		if err := that.csv.Write(row); err != nil {
			return fmt.Errorf("failed to write game %d row: %w", record.Game, err)
		}
	}

	return nil
}

func (that *Writer) Flush() error {
	that.csv.Flush()

	if err := that.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}

	return nil
}
