// package formatter renders listed videos and users as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/samber/lo"
)

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat parses a format name; "md" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (use json, csv, markdown or txt)", shared.ErrInvalidFlag, s)
	}
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return "." + string(f)
}

// Table is a titled grid of cells with an optional summary line.
type Table struct {
	Title   string
	Summary []string
	Headers []string
	Rows    [][]string
}

// VideoTable builds the table for a list of videos.
func VideoTable(title string, videos []models.Video) Table {
	total := lo.SumBy(videos, func(v models.Video) int { return v.Duration })
	published := lo.CountBy(videos, func(v models.Video) bool { return v.Published })

	return Table{
		Title: title,
		Summary: []string{
			fmt.Sprintf("Videos: %d", len(videos)),
			fmt.Sprintf("Published: %d", published),
			fmt.Sprintf("Total duration: %s", shared.FormatTotalDuration(total)),
		},
		Headers: []string{"ID", "Title", "Duration", "Status", "Featured", "Favorite"},
		Rows: lo.Map(videos, func(v models.Video, _ int) []string {
			return []string{
				v.Key(),
				v.Title,
				shared.FormatDuration(v.Duration),
				lo.Ternary(v.Published, "published", "draft"),
				strconv.FormatBool(v.Featured),
				strconv.FormatBool(v.InWatchlist),
			}
		}),
	}
}

// UserTable builds the table for a list of accounts.
func UserTable(title string, users []models.User) Table {
	admins := lo.CountBy(users, func(u models.User) bool { return u.Role == models.RoleAdmin })

	return Table{
		Title: title,
		Summary: []string{
			fmt.Sprintf("Users: %d", len(users)),
			fmt.Sprintf("Admins: %d", admins),
		},
		Headers: []string{"ID", "Name", "Email", "Role", "Status"},
		Rows: lo.Map(users, func(u models.User, _ int) []string {
			return []string{u.Key(), u.FullName, u.Email, string(u.Role), u.Status()}
		}),
	}
}

// CSV renders the headers and rows. Title and summary are omitted.
func (t Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	if err := writer.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV records: %w", err)
	}

	return buf.Bytes(), nil
}

// Markdown renders a heading, the summary in bold and a pipe table.
func (t Table) Markdown() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", t.Title)
	for _, line := range t.Summary {
		label, value, _ := strings.Cut(line, ": ")
		fmt.Fprintf(&buf, "**%s**: %s\n", label, value)
	}
	if len(t.Summary) > 0 {
		buf.WriteString("\n")
	}

	buf.WriteString("| " + strings.Join(t.Headers, " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(t.Headers)) + "\n")
	for _, row := range t.Rows {
		cells := lo.Map(row, func(c string, _ int) string { return strings.ReplaceAll(c, "|", `\|`) })
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return buf.Bytes()
}

// Text renders one numbered line per row.
func (t Table) Text() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", t.Title)
	for _, line := range t.Summary {
		fmt.Fprintf(&buf, "%s\n", line)
	}
	buf.WriteString("\n")

	for i, row := range t.Rows {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, strings.Join(row[1:], " - "))
	}

	return buf.Bytes()
}

// Render encodes t in format f. JSON encodes data instead of the table.
func Render(f Format, t Table, data any) ([]byte, error) {
	switch f {
	case FormatCSV:
		return t.CSV()
	case FormatMarkdown:
		return t.Markdown(), nil
	case FormatText:
		return t.Text(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// WriteFile writes content to path, creating parent directories, and returns the path written.
func WriteFile(path string, content []byte) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}
