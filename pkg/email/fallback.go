package email

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"sweepo-backend/internal/domain"
)

// fallbackData feeds the built-in layouts used when template assets are unavailable
type fallbackData struct {
	Name      string
	Email     string
	Phone     string
	Service   string
	Address   string
	Message   string
	Submitted string
	RequestID string
}

// fallbackHTMLTemplate is the built-in HTML layout for quote emails
const fallbackHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Quote Request</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #4CAF50; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .value { margin-left: 10px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Quote Request</h1>
        </div>
        <div class="content">
            <div class="field"><span class="label">Name:</span><span class="value">{{.Name}}</span></div>
            <div class="field"><span class="label">Email:</span><span class="value">{{.Email}}</span></div>
            <div class="field"><span class="label">Phone:</span><span class="value">{{.Phone}}</span></div>
            <div class="field"><span class="label">Service:</span><span class="value">{{.Service}}</span></div>
{{- if .Address}}
            <div class="field"><span class="label">Address:</span><span class="value">{{.Address}}</span></div>
{{- end}}
{{- if .Message}}
            <div class="field"><span class="label">Message:</span><span class="value">{{.Message}}</span></div>
{{- end}}
            <div class="field"><span class="label">Submitted:</span><span class="value">{{.Submitted}}</span></div>
            <div class="field"><span class="label">Request ID:</span><span class="value">{{.RequestID}}</span></div>
        </div>
    </div>
</body>
</html>
`

// fallbackTextTemplate is the built-in plain-text layout for quote emails
const fallbackTextTemplate = `NEW QUOTE REQUEST
==================

Name: {{.Name}}
Email: {{.Email}}
Phone: {{.Phone}}
Service: {{.Service}}
{{- if .Address}}
Address: {{.Address}}
{{- end}}
{{- if .Message}}
Message:
{{.Message}}
{{- end}}
Submitted: {{.Submitted}}
Request ID: {{.RequestID}}
`

var (
	fallbackHTML = htmltemplate.Must(htmltemplate.New("quote-fallback-html").Parse(fallbackHTMLTemplate))
	fallbackText = texttemplate.Must(texttemplate.New("quote-fallback-text").Parse(fallbackTextTemplate))
)

func newFallbackData(req *domain.QuoteRequest, requestID string) fallbackData {
	return fallbackData{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Service:   domain.ServiceDisplayName(req.Service),
		Address:   req.Address,
		Message:   req.Message,
		Submitted: formatSubmissionTime(req),
		RequestID: requestID,
	}
}

// FallbackHTML renders the built-in HTML layout
func FallbackHTML(req *domain.QuoteRequest, requestID string) string {
	var body bytes.Buffer
	if err := fallbackHTML.Execute(&body, newFallbackData(req, requestID)); err != nil {
		// Executing a parsed layout over plain strings only fails on a broken
		// writer, which bytes.Buffer never is. Keep a readable body anyway.
		return "<pre>" + htmltemplate.HTMLEscapeString(FallbackText(req, requestID)) + "</pre>"
	}
	return body.String()
}

// FallbackText renders the built-in plain-text layout
func FallbackText(req *domain.QuoteRequest, requestID string) string {
	var body bytes.Buffer
	if err := fallbackText.Execute(&body, newFallbackData(req, requestID)); err != nil {
		d := newFallbackData(req, requestID)
		return strings.Join([]string{
			"NEW QUOTE REQUEST",
			"Name: " + d.Name,
			"Email: " + d.Email,
			"Phone: " + d.Phone,
			"Service: " + d.Service,
			"Submitted: " + d.Submitted,
			"Request ID: " + d.RequestID,
		}, "\n") + "\n"
	}
	return body.String()
}
