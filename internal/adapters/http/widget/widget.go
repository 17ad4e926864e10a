// Package widget renders dashboard widgets as HTML fragments.
package widget

import (
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/okian/compdash/internal/domain/policy"
	"github.com/okian/compdash/internal/domain/severity"
	"github.com/okian/compdash/pkg/metrics"
)

// Badge is a small labelled pill.
type Badge struct {
	Text    string
	Variant policy.Variant
}

var variantClasses = map[policy.Variant]string{
	policy.VariantDefault:     "badge badge-default",
	policy.VariantSecondary:   "badge badge-secondary",
	policy.VariantDestructive: "badge badge-destructive",
	policy.VariantOutline:     "badge badge-outline",
	policy.VariantSuccess:     "badge badge-success",
	policy.VariantWarning:     "badge badge-warning",
}

// ChipBadge presents a policy chip as a badge.
func ChipBadge(c policy.Chip) Badge {
	return Badge{Text: c.Label, Variant: c.Variant}
}

// FlagBadge presents a boolean flag: raised flags are destructive, cleared
// flags are outlined.
func FlagBadge(label string, raised bool) Badge {
	if raised {
		return Badge{Text: label, Variant: policy.VariantDestructive}
	}
	return Badge{Text: label, Variant: policy.VariantOutline}
}

var templates = template.Must(template.New("rail").Parse(
	`<div class="metric-rail" data-tier="{{.Tier}}">` +
		`<div class="metric-rail-header"><span class="metric-rail-label">{{.Label}}</span>` +
		`<span class="metric-rail-value {{.TextClass}}">{{.ValueLabel}}</span></div>` +
		`<div class="metric-rail-track" role="progressbar" aria-valuemin="0" aria-valuemax="100" aria-valuenow="{{.Width}}">` +
		`<div class="metric-rail-fill {{.ColorClass}}" style="width: {{.Width}}%"></div></div></div>`,
))

func init() { //nolint:gochecknoinits // templates are parsed once
	template.Must(templates.New("badge").Parse(
		`<span class="{{.Class}}" data-variant="{{.Variant}}">{{.Text}}</span>`,
	))
}

type railView struct {
	Label      string
	ValueLabel string
	Tier       string
	ColorClass string
	TextClass  string
	Width      string
}

type badgeView struct {
	Text    string
	Variant string
	Class   string
}

// RenderRail writes r as a track with a proportional, tier-colored fill.
func RenderRail(w io.Writer, r severity.Rail) error {
	view := railView{
		Label:      r.Label,
		ValueLabel: r.ValueLabel,
		Tier:       r.Tier.String(),
		ColorClass: r.ColorClass,
		TextClass:  r.Tier.Treatment().TextClass,
		Width:      strconv.FormatFloat(r.FillPct, 'f', -1, 64),
	}
	if err := templates.ExecuteTemplate(w, "rail", view); err != nil {
		return fmt.Errorf("render rail: %w", err)
	}
	metrics.RecordRailRender(view.Tier, r.Value)
	return nil
}

// RenderBadge writes b as a pill. Unknown variants fall back to default.
func RenderBadge(w io.Writer, b Badge) error {
	variant := b.Variant
	class, ok := variantClasses[variant]
	if !ok {
		variant = policy.VariantDefault
		class = variantClasses[variant]
	}
	view := badgeView{Text: b.Text, Variant: string(variant), Class: class}
	if err := templates.ExecuteTemplate(w, "badge", view); err != nil {
		return fmt.Errorf("render badge: %w", err)
	}
	metrics.RecordBadgeRender(string(variant))
	return nil
}
