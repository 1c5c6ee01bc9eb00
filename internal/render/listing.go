package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexhholmes/layoutdecl/internal/analyzer"
	"github.com/alexhholmes/layoutdecl/internal/field"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	iconStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingRight(1)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(field.MaxNameLength + 1)
	offsetStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	idStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).PaddingLeft(2)
	emptyStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	collisionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	gapStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Icon returns the glyph shown in front of a field of kind k.
func Icon(k field.Kind) string {
	switch k {
	case field.Number:
		return "#"
	case field.String:
		return "T"
	default:
		return "?"
	}
}

// Line renders one header entry as "<icon> <label> <start>:<end>(<size>)".
func Line(f field.Field, withID bool) string {
	line := iconStyle.Render(Icon(f.Kind)) +
		labelStyle.Render(f.Name) +
		offsetStyle.Render(f.Offsets.String())
	if withID {
		line += idStyle.Render(f.ID)
	}
	return line
}

// Header renders the header listing in insertion order.
func Header(fields []field.Field, withID bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Header"))
	b.WriteString("\n")

	if len(fields) == 0 {
		b.WriteString(emptyStyle.Render("(no fields)"))
		b.WriteString("\n")
		return b.String()
	}

	for _, f := range fields {
		b.WriteString(Line(f, withID))
		b.WriteString("\n")
	}
	return b.String()
}

// Report renders an analysis: record length, uncovered runs and overlaps.
func Report(r *analyzer.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Record"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "length %d, %d fields\n", r.RecordLength, len(r.Regions))

	for _, g := range r.Gaps {
		b.WriteString(gapStyle.Render(fmt.Sprintf("gap %d:%d(%d)", g.Start, g.End, g.End-g.Start+1)))
		b.WriteString("\n")
	}
	for _, c := range r.Collisions {
		b.WriteString(collisionStyle.Render(c.Error()))
		b.WriteString("\n")
	}
	if r.IsValid() {
		b.WriteString("no overlapping fields\n")
	}
	return b.String()
}
