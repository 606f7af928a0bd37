// Package markdown renders post bodies to HTML as templ components.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Raw HTML in post bodies is not passed through; goldmark replaces it with a
// comment unless the unsafe renderer option is set.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderMarkdown(&buf, content)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of content to buf. If the
// converter fails the text is written escaped inside a paragraph.
func RenderMarkdown(buf *bytes.Buffer, content string) {
	mark := buf.Len()
	if err := md.Convert([]byte(content), buf); err != nil {
		buf.Truncate(mark)
		buf.WriteString("<p>" + html.EscapeString(content) + "</p>")
	}
}
