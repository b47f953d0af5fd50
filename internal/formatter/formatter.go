// package formatter provides functions to export pipeline results to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/vibelist/internal/models"
	"github.com/desertthunder/vibelist/internal/shared"
)

// ExportToCSV converts a pipeline result's track list to CSV format with
// columns: Position, ID, Name, Artists, URI. Position 0 is the seed track.
func ExportToCSV(result *models.PipelineResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Name", "Artists", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	write := func(position int, track models.ResolvedTrack) error {
		return writer.Write([]string{
			strconv.Itoa(position),
			track.ID,
			track.Name,
			track.Artists,
			track.URI,
		})
	}

	if result.SeedTrack != nil {
		if err := write(0, *result.SeedTrack); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	for i, track := range result.Recommendations {
		if err := write(i+1, track); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a pipeline result to Markdown format.
func ExportToMarkdown(result *models.PipelineResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s - %s\n\n", result.Song.Artists, result.Song.Title))

	if result.Song.Album != "" {
		buf.WriteString(fmt.Sprintf("**Album**: %s\n", result.Song.Album))
	}
	if len(result.Song.Genres) > 0 {
		buf.WriteString(fmt.Sprintf("**Genres**: %s\n", joinGenres(result.Song.Genres)))
	}
	if result.Vibe != nil {
		buf.WriteString(fmt.Sprintf("**Vibe**: %s\n", result.Vibe.Name))
	}
	buf.WriteString("\n")

	if result.SeedTrack == nil {
		buf.WriteString("_Not found on Spotify._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString(fmt.Sprintf("**Seed track**: [%s](%s)\n\n", result.SeedTrack.Name, result.SeedTrack.URI))

	buf.WriteString(fmt.Sprintf("## Recommendations (%d)\n\n", len(result.Recommendations)))
	for i, track := range result.Recommendations {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artists, track.Name))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a pipeline result to plain text format.
func ExportToText(result *models.PipelineResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Song: %s - %s\n", result.Song.Artists, result.Song.Title))
	if result.Vibe != nil {
		buf.WriteString(fmt.Sprintf("Vibe: %s\n", result.Vibe.Name))
	}
	buf.WriteString(fmt.Sprintf("Recommendations: %d\n\n", len(result.Recommendations)))

	for i, track := range result.Recommendations {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artists, track.Name))
	}

	return buf.Bytes(), nil
}

// ToResultJSON generates a JSON representation of the full pipeline result.
func ToResultJSON(result *models.PipelineResult) ([]byte, error) {
	return shared.MarshalJSON(result, true)
}

// WriteTextExport exports a pipeline result to plain text format.
//
// Defaults to {seed track ID}_tracks.txt as the filename.
func WriteTextExport(result *models.PipelineResult, filepath string) (string, error) {
	if filepath == "" {
		base := "vibelist"
		if result.SeedTrack != nil {
			base = result.SeedTrack.ID
		}
		filepath = fmt.Sprintf("%s_tracks.txt", base)
	}

	textData, err := ExportToText(result)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

func joinGenres(genres []string) string {
	var buf bytes.Buffer
	for i, genre := range genres {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(genre)
	}
	return buf.String()
}
