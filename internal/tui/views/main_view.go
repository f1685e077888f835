package views

import (
	"fmt"
	"strings"

	"mdocx/internal/tui/common"
	"mdocx/internal/tui/styles"

	"github.com/dustin/go-humanize"
)

// RenderMainView lays out the screen. body is the preview or the file
// picker; status and help are pre-rendered by their components.
func RenderMainView(m common.ModelReader, st styles.Styles, body, status, help string) string {
	var sb strings.Builder

	sb.WriteString(renderBanner(st))
	sb.WriteString("\n")
	sb.WriteString(RenderDropZone(m, st))
	sb.WriteString("\n")
	sb.WriteString(RenderTemplates(m, st))
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	if status != "" {
		sb.WriteString("\n" + status + "\n")
	}
	sb.WriteString("\n" + help)

	return st.App.Render(sb.String())
}

// RenderDropZone shows the active file or a hint on how to provide one.
func RenderDropZone(m common.ModelReader, st styles.Styles) string {
	zone := st.DropZone
	if m.Dragging() {
		zone = st.DropActive
	}

	f := m.File()
	if f == nil {
		return zone.Render("Drop a Markdown file here (paste its path) or press o to browse\n" +
			st.Muted.Render(".md, .markdown up to 10 MiB"))
	}
	return zone.Render(fmt.Sprintf("%s\n%s", f.Name, st.Muted.Render(humanize.IBytes(uint64(f.Size)))))
}

// RenderTemplates lists "no template" followed by the service's templates
// and marks the selected one.
func RenderTemplates(m common.ModelReader, st styles.Styles) string {
	names := m.Templates()
	selected := m.SelectedTemplate()

	parts := make([]string, 0, len(names)+1)
	parts = append(parts, templateEntry(st, "none", selected == ""))
	for _, name := range names {
		parts = append(parts, templateEntry(st, name, name == selected))
	}
	if selected != "" && !contains(names, selected) {
		parts = append(parts, templateEntry(st, selected, true))
	}

	line := "Template: " + strings.Join(parts, "  ")
	if len(names) == 0 {
		line += "  " + st.Muted.Render("(no templates available)")
	}
	return line
}

func templateEntry(st styles.Styles, name string, selected bool) string {
	if selected {
		return st.Selected.Render("[" + name + "]")
	}
	return st.Unselected.Render(name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func renderBanner(st styles.Styles) string {
	return st.Title.Render("mdocx · Markdown to DOCX")
}
