// Package badge renders the two-segment shields-style SVG badge.
package badge

import (
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"
)

// Segment geometry. The right segment grows with the value text at roughly
// 7 units per character with a 60-unit floor.
const (
	leftWidth     = 72
	minRightWidth = 60
	unitsPerRune  = 7
	rightTextPad  = 20
)

const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="20" viewBox="0 0 {{.Width}} 20" role="img" aria-label="MonkeyType: {{.Value}}">
  <title>MonkeyType: {{.Value}}</title>
  <linearGradient id="g" x2="0" y2="100%">
    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
    <stop offset="1" stop-opacity=".1"/>
  </linearGradient>
  <rect rx="3" width="{{.Width}}" height="20" fill="#555"/>
  <rect rx="3" x="{{.LeftWidth}}" width="{{.RightWidth}}" height="20" fill="#2aa198"/>
  <rect rx="3" width="{{.Width}}" height="20" fill="url(#g)"/>
  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="11">
    <text x="{{.LeftCenter}}" y="14" fill="#fff">MonkeyType</text>
    <text x="{{.RightCenter}}" y="14" fill="#fff">{{.Value}}</text>
  </g>
</svg>
`

var svgTmpl = template.Must(template.New("badge").Parse(svgTemplate))

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

type badgeData struct {
	Width       int
	LeftWidth   int
	RightWidth  int
	LeftCenter  float64
	RightCenter float64
	Value       string
}

// Render produces the complete SVG markup for the given value text. Output
// is deterministic: identical input yields byte-identical markup.
func Render(text string) (string, error) {
	left, right := segmentWidths(text)
	data := badgeData{
		Width:       left + right,
		LeftWidth:   left,
		RightWidth:  right,
		LeftCenter:  float64(left) / 2,
		RightCenter: float64(left) + float64(right)/2,
		Value:       xmlEscaper.Replace(text),
	}
	var b strings.Builder
	if err := svgTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render badge: %w", err)
	}
	return b.String(), nil
}

func segmentWidths(text string) (left, right int) {
	right = unitsPerRune*utf8.RuneCountInString(text) + rightTextPad
	if right < minRightWidth {
		right = minRightWidth
	}
	return leftWidth, right
}
