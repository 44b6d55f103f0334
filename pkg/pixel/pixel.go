// Package pixel injects the Meta (Facebook) pixel loader into HTML pages.
package pixel

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
)

const (
	ScriptID  = "meta-pixel-script"
	ScriptSrc = "https://connect.facebook.net/en_US/fbevents.js"
)

var snippetTmpl = template.Must(template.New("pixel").Parse(
	`<script>!function(f){if(f.fbq)return;var n=f.fbq=function(){n.callMethod?n.callMethod.apply(n,arguments):n.queue.push(arguments)};if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';n.queue=[]}(window);</script>
<script id="{{.ID}}" async src="{{.Src}}" onload="fbq('init', {{.PixelID}});fbq('track', 'PageView');" onerror="console.warn('meta pixel failed to load')"></script>
`))

// Loader renders the pixel snippet for a configured pixel id
type Loader struct {
	pixelID string
	logger  *slog.Logger
	warn    sync.Once
}

func NewLoader(pixelID string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{pixelID: pixelID, logger: logger}
}

// Enabled reports whether a pixel id is configured
func (l *Loader) Enabled() bool {
	return l.pixelID != ""
}

// Snippet returns the script tags, or "" when the pixel is disabled
func (l *Loader) Snippet() template.HTML {
	if !l.Enabled() {
		return ""
	}
	var buf bytes.Buffer
	err := snippetTmpl.Execute(&buf, struct {
		ID, Src, PixelID string
	}{ScriptID, ScriptSrc, l.pixelID})
	if err != nil {
		l.logger.Warn("pixel: render snippet failed", "error", err)
		return ""
	}
	return template.HTML(buf.String())
}

// Inject inserts the snippet before </head>. Pages that already carry the
// script id, or have no head, are returned unchanged. Never fails.
func (l *Loader) Inject(page []byte) []byte {
	if !l.Enabled() {
		l.warn.Do(func() {
			l.logger.Warn("pixel: META_PIXEL_ID not configured, pixel not loaded")
		})
		return page
	}
	if bytes.Contains(page, []byte(fmt.Sprintf(`id="%s"`, ScriptID))) {
		return page
	}
	idx := bytes.Index(bytes.ToLower(page), []byte("</head>"))
	if idx < 0 {
		l.logger.Warn("pixel: page has no </head>, pixel not injected")
		return page
	}
	out := make([]byte, 0, len(page)+1024)
	out = append(out, page[:idx]...)
	out = append(out, l.Snippet()...)
	out = append(out, page[idx:]...)
	return out
}
