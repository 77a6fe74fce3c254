// package formatter provides functions to export curation history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/airlift/internal/models"
)

const timestampLayout = time.RFC3339

// ExportToCSV converts curation events to CSV with columns:
// Timestamp, Kind, Artist, Title, TrackID, Link, ArtistScore, TitleScore, Detail
func ExportToCSV(events []models.Event) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Timestamp", "Kind", "Artist", "Title", "TrackID", "Link", "ArtistScore", "TitleScore", "Detail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, event := range events {
		record := []string{
			event.CreatedAt.Format(timestampLayout),
			string(event.Kind),
			event.Artist,
			event.Title,
			event.TrackID,
			event.Link,
			strconv.FormatFloat(event.ArtistScore, 'f', 4, 64),
			strconv.FormatFloat(event.TitleScore, 'f', 4, 64),
			event.Detail,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts curation events to a Markdown decision journal.
func ExportToMarkdown(events []models.Event, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Curation History"
	}

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Events**: %d\n\n", len(events)))

	for i, event := range events {
		line := fmt.Sprintf("%d. `%s` %s: %s - %s",
			i+1,
			event.CreatedAt.Format(timestampLayout),
			event.Kind,
			event.Artist,
			event.Title,
		)
		if event.Link != "" {
			line += fmt.Sprintf(" ([track](%s))", event.Link)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts curation events to plain text, one decision per line.
func ExportToText(events []models.Event) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Events: %d\n\n", len(events)))

	for i, event := range events {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s: %s - %s",
			i+1,
			event.CreatedAt.Format(timestampLayout),
			event.Kind,
			event.Artist,
			event.Title,
		))
		if event.TrackID != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", event.TrackID))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}
