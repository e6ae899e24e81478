package service

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

// EmailRenderer renders the new-recommendation notification email
type EmailRenderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

const emailHTMLTemplate = `<html>
<body>
<h1>New recommendation</h1>
<p><a href="{{.URL}}">{{.Title}}</a> has recommended this site.</p>
{{- if .Excerpt}}
<blockquote>{{.Excerpt}}</blockquote>
{{- end}}
{{- if .RecommendingBack}}
<p>You are already recommending them back.</p>
{{- else}}
<p>You are not recommending them yet.</p>
{{- end}}
</body>
</html>
`

const emailTextTemplate = `New recommendation

{{.Title}} ({{.URL}}) has recommended this site.
{{- if .Excerpt}}

{{.Excerpt}}
{{- end}}

{{if .RecommendingBack}}You are already recommending them back.{{else}}You are not recommending them yet.{{end}}
`

// NewEmailRenderer creates a renderer with the built-in templates
func NewEmailRenderer() *EmailRenderer {
	return &EmailRenderer{
		html: htmltemplate.Must(htmltemplate.New("html").Parse(emailHTMLTemplate)),
		text: texttemplate.Must(texttemplate.New("text").Parse(emailTextTemplate)),
	}
}

type emailData struct {
	Title            string
	URL              string
	Excerpt          string
	RecommendingBack bool
}

// Subject returns the notification subject line
func (r *EmailRenderer) Subject(incoming IncomingRecommendation) string {
	title := incoming.Title
	if title == "" && incoming.URL != nil {
		title = incoming.URL.Host
	}
	return fmt.Sprintf("👍 New recommendation: %s", title)
}

// Render produces the HTML and plain-text bodies
func (r *EmailRenderer) Render(incoming IncomingRecommendation) (html, text string, err error) {
	data := emailData{
		Title:            incoming.Title,
		RecommendingBack: incoming.RecommendingBack,
	}
	if incoming.URL != nil {
		data.URL = incoming.URL.String()
	}
	if data.Title == "" {
		data.Title = data.URL
	}
	if incoming.Excerpt != nil {
		data.Excerpt = *incoming.Excerpt
	}

	var htmlBuf, textBuf strings.Builder
	if err := r.html.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}
	if err := r.text.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}
