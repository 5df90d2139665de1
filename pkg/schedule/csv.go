package schedule

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// EventsRenderer turns a list of events into an export format.
type EventsRenderer interface {
	ContentType() string
	Render(events []Event) ([]byte, error)
}

type CsvEventsRendererImpl struct{}

func NewCsvEventsRenderer() *CsvEventsRendererImpl {
	return &CsvEventsRendererImpl{}
}

func (r *CsvEventsRendererImpl) ContentType() string {
	return "text/csv"
}

func (r *CsvEventsRendererImpl) Render(events []Event) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "series_id", "title", "owner", "start", "end", "priority", "status", "recurrence", "notes"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("could not write csv header: %w", err)
	}
	for _, event := range events {
		record := []string{
			event.ID.String(),
			event.SeriesID.String(),
			event.Title,
			event.Owner,
			event.StartTime.Format(time.RFC3339),
			event.EndTime.Format(time.RFC3339),
			string(event.Priority),
			string(event.Status),
			string(event.Recurrence),
			event.Notes,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("could not write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("could not render csv: %w", err)
	}
	return buf.Bytes(), nil
}
