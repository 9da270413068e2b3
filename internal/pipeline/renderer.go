package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/legalese/internal/model"
)

const (
	banner = "═══════════════════════════════════════════════════════════════"

	footerText = "Generated by legalese. This is a plain-language reading aid, not legal advice. " +
		"Consult a qualified lawyer before relying on any interpretation."
)

// Renderer writes reports as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as Markdown to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	name := report.Source.Name
	if name == "" {
		name = "Legal text"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	if report.Source.Origin != "" {
		fmt.Fprintf(&b, "**Source:** %s  \n", report.Source.Origin)
	}
	fmt.Fprintf(&b, "**Mode:** %s  \n", describeMode(report))
	fmt.Fprintf(&b, "**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	if len(report.Warnings) > 0 {
		b.WriteString("> **Warnings**\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "> - %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Plain English\n\n")
	b.WriteString(report.Simplified)
	b.WriteString("\n\n")

	b.WriteString("## Key Points\n\n")
	for _, kp := range report.KeyPoints {
		fmt.Fprintf(&b, "- **%s**: %s\n", kp.Category, kp.Text)
	}
	b.WriteString("\n")

	b.WriteString("## Risk Assessment\n\n")
	fmt.Fprintf(&b, "**Level:** %s", report.Risk.Level)
	if report.Mode == model.ModeBasic {
		fmt.Fprintf(&b, " (score %d)", report.Risk.Score)
	}
	b.WriteString("\n\n")
	b.WriteString(report.Risk.Explanation)
	b.WriteString("\n\n")

	if len(report.Risk.Matches) > 0 {
		b.WriteString("| Term | Group | Weight |\n|---|---|---|\n")
		for _, m := range report.Risk.Matches {
			fmt.Fprintf(&b, "| %s | %s | %+d |\n", m.Term, m.Group, m.Weight)
		}
		b.WriteString("\n")
	}

	writeMarkdownList(&b, "Definitions", report.Definitions)
	writeMarkdownList(&b, "Obligations", report.Obligations)
	writeMarkdownList(&b, "Parties", report.Parties)
	writeMarkdownList(&b, "Timelines", report.Timelines)

	b.WriteString("## Original Text\n\n")
	for _, line := range strings.Split(report.Original, "\n") {
		fmt.Fprintf(&b, "> %s\n", line)
	}
	b.WriteString("\n")

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\n*%s*\n", footerText)
	}

	return b.String()
}

// RenderSummary prints a terminal summary of the report
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "  LEGALESE: %s\n", report.Source.Name)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Mode:   %s\n", describeMode(report))
	if report.Mode == model.ModeBasic {
		fmt.Fprintf(w, "Risk:   %s (score %d)\n", report.Risk.Level, report.Risk.Score)
	} else {
		fmt.Fprintf(w, "Risk:   %s\n", report.Risk.Level)
	}
	if report.Estimate != nil {
		fmt.Fprintf(w, "Tokens: ~%d (%s, $%.4f)\n", report.Estimate.Tokens, report.Estimate.Model, report.Estimate.Cost)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Plain English:")
	fmt.Fprintf(w, "  %s\n\n", report.Simplified)

	fmt.Fprintln(w, "Key Points:")
	for _, kp := range report.KeyPoints {
		fmt.Fprintf(w, "  • [%s] %s\n", kp.Category, kp.Text)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Risk Factors:")
	for _, reason := range report.Risk.Reasons {
		fmt.Fprintf(w, "  ✗ %s\n", reason)
	}
	if len(report.Risk.Reasons) == 0 {
		fmt.Fprintln(w, "  ✓ none detected")
	}
	fmt.Fprintf(w, "\n%s\n", report.Risk.Explanation)

	if len(report.Definitions) > 0 {
		fmt.Fprintln(w, "\nDefinitions:")
		for _, d := range report.Definitions {
			fmt.Fprintf(w, "  • %s\n", d)
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "⚠️  %s\n", warning)
		}
	}

	if r.includeFooter {
		fmt.Fprintf(w, "\n%s\n", footerText)
	}
	fmt.Fprintln(w, banner)
}

// RenderReport writes the requested files and prints the summary to stdout
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(os.Stdout, report)
	return nil
}

func describeMode(report *model.Report) string {
	if report.Mode != model.ModeAI {
		return "basic (rule-based)"
	}
	if report.Model != "" {
		return fmt.Sprintf("ai (%s/%s)", report.Provider, report.Model)
	}
	return fmt.Sprintf("ai (%s)", report.Provider)
}

func writeMarkdownList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
