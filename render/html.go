// Package render turns a projected snapshot into a standalone HTML page,
// optionally screenshotted to PNG through headless chrome.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/teamKimtaerin/ecg-player/animation"
	"github.com/teamKimtaerin/ecg-player/projection"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  html, body { margin: 0; background: #000; }
  #stage { position: relative; width: {{.W}}px; height: {{.H}}px; overflow: hidden; }
  .box { position: absolute; border-radius: {{printf "%.1f" .Radius}}px; }
  .ch { position: absolute; bottom: 20%; font-family: sans-serif; white-space: pre; }
</style>
</head>
<body>
<div id="stage">
{{- range .Boxes}}
<div class="box" style="left:{{px .X}};top:{{px .Y}};width:{{px .W}};height:{{px .H}};z-index:{{.ZOrder}};background:rgba(20,20,20,{{printf "%.2f" .Opacity}})">
{{- range .Chars}}
  <span class="ch" style="left:{{px .X}};transform:translateY({{px .TranslateY}}) scale({{printf "%.3f" .Scale}});font-size:{{px .FontSizePx}};font-weight:{{weight .Weight}};color:{{.Color}};opacity:{{printf "%.2f" .Opacity}};{{if .Shadow}}text-shadow:0 0 6px {{.Color}};{{end}}{{if ne .Brightness 1.0}}filter:brightness({{printf "%.2f" .Brightness}});{{end}}">{{printf "%c" .Rune}}</span>
{{- end}}
</div>
{{- end}}
</div>
</body>
</html>
`

type pageData struct {
	W, H   int
	Radius float64
	Boxes  []projection.Box
}

var funcs = template.FuncMap{
	"px": func(v float64) string { return fmt.Sprintf("%.1fpx", v) },
	"weight": func(pct float64) int {
		// 100% maps to CSS 400; clamp to the valid 100..900 range
		w := int(pct * 4)
		if w < 100 {
			w = 100
		}
		if w > 900 {
			w = 900
		}
		return w
	},
}

var page = template.Must(template.New("snapshot").Funcs(funcs).Parse(pageTemplate))

// HTML renders one snapshot as a standalone page sized to the viewport.
func HTML(snap projection.Snapshot, vp animation.Viewport) (string, error) {
	data := pageData{W: vp.W, H: vp.H, Boxes: snap.Boxes}
	if len(snap.Boxes) > 0 {
		data.Radius = snap.Boxes[0].RadiusPx
	}
	var b strings.Builder
	if err := page.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render snapshot html: %w", err)
	}
	return b.String(), nil
}
