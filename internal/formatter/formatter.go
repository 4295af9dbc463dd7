// package formatter renders comparison reports and library listings as text, Markdown, CSV, JSON or tables
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Format is an output format accepted by [Render].
type Format string

const (
	Text     Format = "text"
	Markdown Format = "md"
	CSV      Format = "csv"
	JSON     Format = "json"
	Table    Format = "table"
)

// ParseFormat maps a user-supplied name to a [Format]; an empty name selects [Table].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return Table, nil
	case "text", "txt":
		return Text, nil
	case "md", "markdown":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (expected table, text, md, csv or json)", shared.ErrInvalidArgument, s)
	}
}

// Render produces report in the requested format.
func Render(report *models.ComparisonReport, format Format) ([]byte, error) {
	switch format {
	case Text:
		return ExportToText(report)
	case Markdown:
		return ExportToMarkdown(report, "")
	case CSV:
		return ExportToCSV(report)
	case JSON:
		return shared.MarshalJSON(report, true)
	case Table:
		var buf bytes.Buffer
		ResultTable(&buf, report)
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV writes one row per entry with columns: Set, ID, Name, Artist
func ExportToCSV(report *models.ComparisonReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Set", "ID", "Name", "Artist"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, set := range report.Result.Sets() {
		for _, track := range set.Tracks {
			if err := writer.Write([]string{set.Name, track.ID, track.Name, track.Artist}); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the report as a Markdown document with an optional cover image
func ExportToMarkdown(report *models.ComparisonReport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s vs %s\n\n", refLabel(report.First), refLabel(report.Second)))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**In common**: %d\n", len(report.Result.Common)))
	buf.WriteString(fmt.Sprintf("**Only in first**: %d\n", len(report.Result.Only1)))
	buf.WriteString(fmt.Sprintf("**Only in second**: %d\n", len(report.Result.Only2)))

	for _, set := range report.Result.Sets() {
		buf.WriteString(fmt.Sprintf("\n## %s\n\n", SetTitle(set.Name)))
		if len(set.Tracks) == 0 {
			buf.WriteString("_None_\n")
			continue
		}
		for i, track := range set.Tracks {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, artistOrUnknown(track.Artist), track.Name))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders the report as plain text
func ExportToText(report *models.ComparisonReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("First: %s\n", refLabel(report.First)))
	buf.WriteString(fmt.Sprintf("Second: %s\n", refLabel(report.Second)))

	for _, set := range report.Result.Sets() {
		buf.WriteString(fmt.Sprintf("\n%s (%d)\n", SetTitle(set.Name), len(set.Tracks)))
		for i, track := range set.Tracks {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, artistOrUnknown(track.Artist), track.Name))
		}
	}

	return buf.Bytes(), nil
}

// ResultTable renders every entry of the report as a single rounded table.
func ResultTable(w io.Writer, report *models.ComparisonReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s vs %s", refLabel(report.First), refLabel(report.Second)))
	t.AppendHeader(table.Row{"Set", "#", "Name", "Artist", "Track ID"})

	for _, set := range report.Result.Sets() {
		for i, track := range set.Tracks {
			t.AppendRow(table.Row{set.Name, i + 1, shared.Truncate(track.Name, 48), shared.Truncate(track.Artist, 32), track.ID})
		}
	}

	t.AppendFooter(table.Row{"", "", fmt.Sprintf(
		"%d common, %d only1, %d only2",
		len(report.Result.Common), len(report.Result.Only1), len(report.Result.Only2),
	)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// PlaylistTable renders library playlists for private-mode selection.
func PlaylistTable(w io.Writer, playlists []models.PlaylistSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Name", "Playlist ID"})

	for i, playlist := range playlists {
		t.AppendRow(table.Row{i + 1, shared.Truncate(playlist.Name, 48), playlist.ID})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

// SetTitle returns the heading used for a result set label.
func SetTitle(name string) string {
	switch name {
	case models.SetCommon:
		return "In Common"
	case models.SetOnly1:
		return "Only in First"
	case models.SetOnly2:
		return "Only in Second"
	default:
		return name
	}
}

func refLabel(ref models.PlaylistRef) string {
	if ref.ResolvedID != "" {
		return ref.ResolvedID
	}
	return ref.RawInput
}

func artistOrUnknown(artist string) string {
	if artist == "" {
		return "Unknown Artist"
	}
	return artist
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteExport renders report and writes it to path.
//
// Defaults to {first}_{second}.{ext} when path is empty.
func WriteExport(report *models.ComparisonReport, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_%s.%s", refLabel(report.First), refLabel(report.Second), extension(format))
	}

	data, err := Render(report, format)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

func extension(format Format) string {
	switch format {
	case Markdown:
		return "md"
	case CSV:
		return "csv"
	case JSON:
		return "json"
	default:
		return "txt"
	}
}
