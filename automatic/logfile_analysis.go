package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/domino14/gomoku/board"
)

// AnalyzeLogFile rebuilds the summary of the games in a turn log. Games
// without a result line, such as ones cut short, are left out.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// gameID,turn,player,side,move,result
	names := map[string]*[2]string{}
	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if row[0] == "gameID" {
			continue
		}
		if len(row) != 6 {
			return nil, fmt.Errorf("bad turn log row %v", row)
		}
		gameID := row[0]
		side, ok := board.SideFromRune([]rune(row[3] + ".")[0])
		if !ok || !side.Valid() {
			return nil, fmt.Errorf("bad side %q in game %s", row[3], gameID)
		}
		if names[gameID] == nil {
			names[gameID] = &[2]string{}
		}
		names[gameID][side-1] = row[2]

		if row[5] == "" {
			continue
		}
		turn, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, err
		}
		rec := Record{GameID: gameID, Players: *names[gameID], Turns: turn}
		switch row[5] {
		case "win":
			rec.Winner = side
		case "draw":
		default:
			return nil, fmt.Errorf("bad result %q in game %s", row[5], gameID)
		}
		records = append(records, rec)
	}
	return Summarize(records), nil
}
