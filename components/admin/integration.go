package admin

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/ettle/strcase"
)

// ErrUnknownSnippetFormat is returned for an unsupported integration format.
var ErrUnknownSnippetFormat = errors.New("admin: unknown snippet format")

// SnippetFormat selects the integration flavor.
type SnippetFormat string

const (
	SnippetJavaScript SnippetFormat = "javascript"
	SnippetReact      SnippetFormat = "react"
	SnippetNPM        SnippetFormat = "npm"
)

// WidgetScriptURL is the script embedded by every snippet.
const WidgetScriptURL = "https://cdn.example.com/chat-widget.js"

// Snippet is rendered embed code for a widget.
type Snippet struct {
	Format   SnippetFormat `json:"format"`
	Filename string        `json:"filename"`
	Code     string        `json:"code"`
}

// SnippetFormats lists the supported formats in display order.
func SnippetFormats() []SnippetFormat {
	return []SnippetFormat{SnippetJavaScript, SnippetReact, SnippetNPM}
}

// ParseSnippetFormat accepts the format names plus the "js" shorthand.
func ParseSnippetFormat(raw string) (SnippetFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "js", "javascript":
		return SnippetJavaScript, nil
	case "react", "jsx":
		return SnippetReact, nil
	case "npm":
		return SnippetNPM, nil
	}
	return "", fmt.Errorf("admin: %q: %w", raw, ErrUnknownSnippetFormat)
}

var snippetTemplates = template.Must(template.New("snippets").Parse(`
{{- define "javascript" -}}
// {{.Name}} Widget Integration
<script>
  (function(w, d, s, o) {
    w['ChatWidgetObject'] = o;
    w[o] = w[o] || function() {
      (w[o].q = w[o].q || []).push(arguments);
    };

    var js = d.createElement(s);
    js.async = 1;
    js.src = '{{.ScriptURL}}';
    js.dataset.widgetId = '{{.ID}}';

    d.head.appendChild(js);
  })(window, document, 'script', 'chatWidget');

  chatWidget('init', { widgetId: '{{.ID}}' });
</script>
{{end -}}
{{- define "react" -}}
// {{.Name}} Widget Integration
import { useEffect } from 'react';

const {{.Component}} = () => {
  useEffect(() => {
    const script = document.createElement('script');
    script.async = true;
    script.src = '{{.ScriptURL}}';
    script.dataset.widgetId = '{{.ID}}';
    document.head.appendChild(script);

    window.chatWidget = window.chatWidget || function() {
      (window.chatWidget.q = window.chatWidget.q || []).push(arguments);
    };
    window.chatWidget('init', { widgetId: '{{.ID}}' });

    return () => {
      document.head.removeChild(script);
    };
  }, []);

  return null;
};

export default {{.Component}};
{{end -}}
{{- define "npm" -}}
# Install the ChatWidget package
npm install @chatwidget/react

# Then in your component
import { ChatWidget } from '@chatwidget/react';

<ChatWidget widgetId="{{.ID}}" />
{{end -}}
`))

type snippetData struct {
	ID        string
	Name      string
	Component string
	ScriptURL string
}

// RenderSnippet renders the embed code of w in the requested format.
// The widget name is embedded in a comment line, so it is rendered through
// snippetLabel and never spans lines or carries markup.
func RenderSnippet(w Widget, format SnippetFormat) (Snippet, error) {
	label := snippetLabel(w.Name)
	component := keepRunes(strcase.ToPascal(label), isIdentRune)
	if component == "" || !isIdentStart(component[0]) {
		component = "Chat" + component
	}
	component += "Widget"
	data := snippetData{
		ID:        keepRunes(w.ID, isIDRune),
		Name:      label,
		Component: component,
		ScriptURL: WidgetScriptURL,
	}
	var filename string
	switch format {
	case SnippetJavaScript:
		slug := keepRunes(strcase.ToKebab(label), func(r rune) bool { return r == '-' || isIdentRune(r) && r != '$' })
		if slug == "" {
			slug = "chat"
		}
		filename = slug + "-widget.html"
	case SnippetReact:
		filename = component + ".jsx"
	case SnippetNPM:
		filename = "install.sh"
	default:
		return Snippet{}, fmt.Errorf("admin: %q: %w", format, ErrUnknownSnippetFormat)
	}
	var buf bytes.Buffer
	if err := snippetTemplates.ExecuteTemplate(&buf, string(format), data); err != nil {
		return Snippet{}, fmt.Errorf("admin: render %s snippet: %w", format, err)
	}
	return Snippet{Format: format, Filename: filename, Code: buf.String()}, nil
}

// snippetLabel collapses control characters and whitespace runs into single
// spaces and drops characters that could open markup or a string literal.
func snippetLabel(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return ' '
		case strings.ContainsRune("<>&'\"`\\", r):
			return -1
		}
		return r
	}, name)
	return strings.Join(strings.Fields(cleaned), " ")
}

func keepRunes(s string, keep func(rune) bool) string {
	return strings.Map(func(r rune) rune {
		if keep(r) {
			return r
		}
		return -1
	}, s)
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isIDRune(r rune) bool {
	return r == '-' || r == '_' || r == '.' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
