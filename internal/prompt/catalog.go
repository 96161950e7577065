// Package prompt holds the fixed catalog of analysis prompt templates and
// the context windowing that bounds how much document text each step sends to
// the generative backend. Everything here is pure string construction.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tenderscope/tenderscope/pkg/models"
)

// Context window sizes in characters. The first pass sees the most text;
// later steps use smaller windows to control token cost. Truncation is a hard
// character cut, not sentence aware.
const (
	WindowLarge  = 30000
	WindowMedium = 20000
	WindowSmall  = 10000

	// excerptCap bounds the condensed step-output dumps embedded into the
	// executive summary prompt.
	excerptCap = 2000
)

// Step is one named prompt template with its context window. Immutable.
type Step struct {
	Name     string
	Window   int
	Template string // one %s slot for the context text
}

// Catalog is the fixed, ordered set of pipeline steps. Constructed once and
// passed explicitly into the orchestrator so tests can swap it out.
type Catalog struct {
	steps map[string]Step
	order []string
}

// NewCatalog builds a catalog from steps in the given order.
func NewCatalog(steps ...Step) *Catalog {
	c := &Catalog{steps: make(map[string]Step, len(steps))}
	for _, s := range steps {
		c.steps[s.Name] = s
		c.order = append(c.order, s.Name)
	}
	return c
}

// Default returns the production six-step catalog.
func Default() *Catalog {
	return NewCatalog(
		Step{Name: models.StepRiskAnalysis, Window: WindowLarge, Template: riskTemplate},
		Step{Name: models.StepRequiredDocuments, Window: WindowMedium, Template: documentsTemplate},
		Step{Name: models.StepPenaltyClauses, Window: WindowMedium, Template: penaltiesTemplate},
		Step{Name: models.StepFinancialSummary, Window: WindowMedium, Template: financialTemplate},
		Step{Name: models.StepTimelineAnalysis, Window: WindowSmall, Template: timelineTemplate},
		Step{Name: models.StepExecutiveSummary, Window: WindowSmall, Template: executiveTemplate},
	)
}

// Order returns step names in execution order.
func (c *Catalog) Order() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Step returns the named step.
func (c *Catalog) Step(name string) (Step, bool) {
	s, ok := c.steps[name]
	return s, ok
}

// Render builds the literal prompt for a step, truncating the document text
// to the step's context window.
func (c *Catalog) Render(name, document string) (string, error) {
	s, ok := c.steps[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt step %q", name)
	}
	return fmt.Sprintf(s.Template, Truncate(document, s.Window)), nil
}

// RenderExecutive builds the executive summary prompt. Besides the document
// window it embeds condensed excerpts of the risk and financial step outputs,
// which is why this step must run last.
func (c *Catalog) RenderExecutive(document string, risk, financial models.StepResult) (string, error) {
	s, ok := c.steps[models.StepExecutiveSummary]
	if !ok {
		return "", fmt.Errorf("unknown prompt step %q", models.StepExecutiveSummary)
	}
	context := fmt.Sprintf("%s\n\nRİSK ANALİZİ ÇIKTISI:\n%s\n\nMALİ ÖZET ÇIKTISI:\n%s",
		Truncate(document, s.Window), excerpt(risk), excerpt(financial))
	return fmt.Sprintf(s.Template, context), nil
}

// Chat builds a free-form conversation prompt over a document window plus
// prior turns. The reply is plain text, not JSON.
func Chat(document string, history []models.ChatMessage, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, chatPreamble, Truncate(document, WindowSmall))
	for _, msg := range history {
		switch msg.Role {
		case models.ChatRoleAssistant:
			fmt.Fprintf(&b, "Asistan: %s\n", msg.Content)
		default:
			fmt.Fprintf(&b, "Kullanıcı: %s\n", msg.Content)
		}
	}
	fmt.Fprintf(&b, "Kullanıcı: %s\nAsistan:", question)
	return b.String()
}

// Truncate hard-cuts s to at most max bytes on a rune boundary.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// excerpt renders a size-capped JSON dump of a step output.
func excerpt(sr models.StepResult) string {
	if len(sr) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(sr)
	if err != nil {
		return "{}"
	}
	return Truncate(string(raw), excerptCap)
}
