package main

import (
	"fmt"
	"io"
	"strings"

	"mdocx/internal/config"
	"mdocx/internal/tui/styles"
	"mdocx/pkg/types"
)

func banner() string {
	return styles.Default.Title.Render("mdocx · Markdown to DOCX")
}

func joinThemes() string {
	return strings.Join(config.ListThemes(), ", ")
}

func currentStyles() styles.Styles {
	return styles.New(cfg)
}

func printStatus(w io.Writer, msg types.StatusMessage) {
	if msg.Empty() {
		return
	}
	fmt.Fprintln(w, currentStyles().ForSeverity(msg.Severity).Render(msg.Text))
}

func printSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, currentStyles().Success.Render("✓ "+message))
}

func printError(w io.Writer, message string) {
	fmt.Fprintln(w, currentStyles().Error.Render("✗ "+message))
}

func printInfo(w io.Writer, message string) {
	fmt.Fprintln(w, currentStyles().Info.Render(message))
}
