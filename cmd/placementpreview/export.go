package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// AttemptRecord is one placement attempt as written to CSV.
type AttemptRecord struct {
	Index      int     `csv:"index"`
	RequestedX float64 `csv:"requested_x"`
	RequestedY float64 `csv:"requested_y"`
	Accepted   bool    `csv:"accepted"`
	ID         int     `csv:"id"`
	CenterX    float64 `csv:"center_x"`
	CenterY    float64 `csv:"center_y"`
	MovedX     float64 `csv:"moved_x"`
	MovedY     float64 `csv:"moved_y"`
	Error      string  `csv:"error"`
}

func toRecords(history []attempt) []AttemptRecord {
	records := make([]AttemptRecord, 0, len(history))
	for i, a := range history {
		rec := AttemptRecord{
			Index:      i,
			RequestedX: a.Requested.X,
			RequestedY: a.Requested.Y,
			Accepted:   a.Err == nil,
		}
		if a.Err != nil {
			rec.Error = a.Err.Error()
		} else {
			rec.ID = a.Placed.ID
			rec.CenterX, rec.CenterY = a.Placed.Center.X, a.Placed.Center.Y
			rec.MovedX, rec.MovedY = a.Placed.Displacement.X, a.Placed.Displacement.Y
		}
		records = append(records, rec)
	}
	return records
}

// exportAttempts writes every attempt to path.
func exportAttempts(path string, history []attempt) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	records := toRecords(history)
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
