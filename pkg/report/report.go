// Package report renders check results for a terminal or CI log.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"smokecheck/internal/model"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorInfo    = color.New(color.FgBlue).SprintFunc()
)

const ruleWidth = 60

// Printer writes the human-readable report. It remembers the last section
// so consecutive results share one header.
type Printer struct {
	out     io.Writer
	section string
}

func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

func mark(passed bool) string {
	if passed {
		return colorSuccess("✓")
	}
	return colorError("✗")
}

func (p *Printer) rule() {
	fmt.Fprintln(p.out, colorInfo(strings.Repeat("=", ruleWidth)))
}

func (p *Printer) Banner(title string) {
	fmt.Fprintln(p.out)
	p.rule()
	fmt.Fprintln(p.out, colorInfo(title))
	p.rule()
	fmt.Fprintln(p.out)
}

// Step prints a progress line without a status mark.
func (p *Printer) Step(msg string) {
	fmt.Fprintf(p.out, "%s\n\n", msg)
}

// Fact prints a passed status line such as the resolved release tag.
func (p *Printer) Fact(label, value string) {
	fmt.Fprintf(p.out, "%s %s: %s\n", mark(true), label, colorSuccess(value))
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", colorWarn("⚠"), msg)
}

// Result prints one check, its message and its per-item details.
func (p *Printer) Result(r model.CheckResult) {
	if r.Section != "" && r.Section != p.section {
		fmt.Fprintf(p.out, "\n%s\n", colorInfo("--- "+r.Section+" ---"))
		p.section = r.Section
	}

	fmt.Fprintf(p.out, "%s %s\n", mark(r.Passed), r.Name)
	if r.Message != "" {
		fmt.Fprintf(p.out, "  %s %s\n", colorWarn("→"), r.Message)
	}
	for _, d := range r.Details {
		line := d.Label
		if d.Message != "" {
			line += ": " + d.Message
		}
		fmt.Fprintf(p.out, "    %s %s\n", mark(d.Passed), line)
	}
}

// Summary prints the closing pass count and percentage.
func (p *Printer) Summary(s *model.Summary) {
	fmt.Fprintln(p.out)
	p.rule()
	if s.OK() {
		fmt.Fprintln(p.out, colorSuccess(fmt.Sprintf("✓ All checks passed: %d/%d (100%%)", s.Passed(), s.Total())))
		fmt.Fprintln(p.out, colorSuccess("Release is ready to announce."))
		return
	}
	fmt.Fprintln(p.out, colorError(fmt.Sprintf("✗ Checks passed: %d/%d (%.0f%%), %d failed",
		s.Passed(), s.Total(), s.Percent(), s.Failed())))
	fmt.Fprintln(p.out, colorWarn("⚠ Fix the failures before announcing the release."))
}

// Fatal prints an error that stopped the run before any check executed.
func (p *Printer) Fatal(err error) {
	fmt.Fprintf(p.out, "\n%s\n", colorError("❌ Smoke test aborted: "+err.Error()))
}
