// Package prompt renders financial snapshots into model prompts.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/Veraticus/the-spice-must-advise/internal/aggregate"
	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultMaxChars is the rendered prompt length above which a build fails.
const DefaultMaxChars = 12000

// customTemplate renders ad hoc focus areas.
const customTemplate = "custom"

// Options tunes rendering.
type Options struct {
	Currency        string
	MaxChars        int
	IncludeInsights bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Currency:        "USD",
		MaxChars:        DefaultMaxChars,
		IncludeInsights: true,
	}
}

// CustomOptions configures BuildCustom.
type CustomOptions struct {
	Persona    string
	Title      string
	FocusAreas []string
	Options
}

// Prompt is a rendered, post-processed prompt ready for the model.
type Prompt struct {
	Type     model.RecommendationType `json:"type"`
	Text     string                   `json:"text"`
	Warnings []string                 `json:"warnings,omitempty"`
	Stats    Stats                    `json:"stats"`
}

// Builder renders one embedded template per recommendation type.
type Builder struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewBuilder parses the embedded templates.
func NewBuilder(logger *slog.Logger) (*Builder, error) {
	funcMap := template.FuncMap{
		"percent": formatPercent,
		"ratio":   formatRatio,
		"date":    formatDate,
		"inc":     func(i int) int { return i + 1 },
	}

	tmpl, err := template.New("prompts").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}

	for _, t := range model.AllRecommendationTypes() {
		if tmpl.Lookup(templateName(string(t))) == nil {
			return nil, fmt.Errorf("missing prompt template for %s", t)
		}
	}

	return &Builder{
		templates: tmpl,
		logger:    common.LoggerOrDefault(logger),
	}, nil
}

// Build renders the prompt for a recommendation type.
// A nil snapshot or an oversized prompt is a *common.ValidationError; suspicious
// figures only produce warnings.
func (b *Builder) Build(recType model.RecommendationType, snap *aggregate.Snapshot, opts Options) (*Prompt, error) {
	if !recType.Valid() {
		return nil, &common.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown recommendation type %q", recType)}
	}
	return b.render(string(recType), recType, snap, templateData{Options: withDefaults(opts)})
}

// BuildCustom renders the generic template with a caller-supplied persona and focus areas.
func (b *Builder) BuildCustom(snap *aggregate.Snapshot, opts CustomOptions) (*Prompt, error) {
	var areas []string
	for _, area := range opts.FocusAreas {
		if area = strings.TrimSpace(area); area != "" {
			areas = append(areas, area)
		}
	}
	if len(areas) == 0 {
		return nil, &common.ValidationError{Field: "focus_areas", Reason: "at least one focus area is required"}
	}

	data := templateData{
		Options:    withDefaults(opts.Options),
		Persona:    strings.TrimSpace(opts.Persona),
		Title:      strings.TrimSpace(opts.Title),
		FocusAreas: areas,
	}
	return b.render(customTemplate, model.RecommendationType(customTemplate), snap, data)
}

func (b *Builder) render(name string, recType model.RecommendationType, snap *aggregate.Snapshot, data templateData) (*Prompt, error) {
	if snap == nil {
		return nil, &common.ValidationError{Field: "snapshot", Reason: "snapshot is required"}
	}

	warnings := Check(snap)
	for _, w := range warnings {
		b.logger.Warn("prompt input looks suspicious", "type", recType, "warning", w)
	}

	data.Snapshot = snap

	var buf bytes.Buffer
	if err := b.templates.ExecuteTemplate(&buf, templateName(name), data); err != nil {
		return nil, fmt.Errorf("failed to execute %s template: %w", name, err)
	}

	text := Normalize(buf.String())
	if n := len([]rune(text)); n > data.Options.MaxChars {
		return nil, &common.ValidationError{
			Field:  "prompt",
			Reason: fmt.Sprintf("rendered prompt is %d characters, limit is %d", n, data.Options.MaxChars),
		}
	}

	p := &Prompt{
		Type:     recType,
		Text:     text,
		Stats:    Measure(text),
		Warnings: warnings,
	}

	b.logger.Debug("built prompt",
		"type", recType,
		"characters", p.Stats.Characters,
		"estimated_tokens", p.Stats.EstimatedTokens)

	return p, nil
}

func withDefaults(opts Options) Options {
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	return opts
}

func templateName(name string) string {
	return name + ".tmpl"
}

// templateData is the value every template executes against.
type templateData struct {
	Snapshot   *aggregate.Snapshot
	Persona    string
	Title      string
	FocusAreas []string
	Options    Options
}

// CurrencyName is the currency code shown in the persona.
func (d templateData) CurrencyName() string {
	return strings.ToUpper(d.Options.Currency)
}

// Money formats an amount in the configured currency.
func (d templateData) Money(amount float64) string {
	return formatMoney(d.Options.Currency, amount)
}

// Template helper functions

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

func formatMoney(currency string, amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	whole := fmt.Sprintf("%.2f", amount)
	intPart, frac, _ := strings.Cut(whole, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	if symbol, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return sign + symbol + grouped.String() + "." + frac
	}
	return sign + grouped.String() + "." + frac + " " + strings.ToUpper(currency)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func formatRatio(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
