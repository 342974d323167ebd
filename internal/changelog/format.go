package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"

	"github.com/universal-changesets/changeset/internal/changeset"
)

// SectionStyle defines the color and icon for a changelog section.
type SectionStyle struct {
	Color *color.Color
	Icon  string
}

// sectionStyles maps increment types to their terminal styling.
var sectionStyles = map[changeset.IncrementType]SectionStyle{
	changeset.Major: {Color: color.New(color.FgRed), Icon: "!"},
	changeset.Minor: {Color: color.New(color.FgGreen), Icon: "+"},
	changeset.Patch: {Color: color.New(color.FgYellow), Icon: "~"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = 80 columns)
}

// FormatTerminal writes the pending entry for version to w with terminal
// styling. Plain output is exactly the Markdown produced by Render.
func FormatTerminal(version *semver.Version, changes changeset.ChangeSet, w io.Writer, opts FormatOptions) error {
	if len(changes) == 0 {
		return nil
	}

	if opts.Plain {
		_, err := fmt.Fprintln(w, Render(version, changes))
		return err
	}

	width := resolveWidth(opts.MaxWidth)
	bold := color.New(color.Bold).SprintFunc()
	if _, err := fmt.Fprintf(w, "%s\n", bold(EntryHeading(version))); err != nil {
		return err
	}

	for _, s := range Sections {
		group := changes.Filter(s.Type)
		if len(group) == 0 {
			continue
		}
		if err := writeSection(s, group, w, width); err != nil {
			return fmt.Errorf("formatting %s: %w", s.Title, err)
		}
	}
	return nil
}

// writeSection writes one colored section header followed by its entries.
func writeSection(s Section, changes changeset.ChangeSet, w io.Writer, width int) error {
	style := sectionStyles[s.Type]
	colored := style.Color.SprintFunc()

	if _, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(s.Title)); err != nil {
		return err
	}

	const prefix = "  - "
	for _, c := range changes {
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapText(c.Summary, width-len(prefix), "    "))); err != nil {
			return err
		}
		if c.Description == "" {
			continue
		}
		for _, line := range strings.Split(c.Description, "\n") {
			if _, err := fmt.Fprintf(w, "    %s\n", wrapText(line, width-4, "    ")); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveWidth falls back to 80 columns when no width is known.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
