package email

import (
	"html"
	"sort"
	"strings"

	"sweepo-backend/internal/domain"
)

// Placeholder keys understood by the quote templates. A key K appears in a
// template as {{K}}; conditional sections use {{#if K}} ... {{/if}}.
const (
	KeyCustomerName    = "CustomerName"
	KeyCustomerEmail   = "CustomerEmail"
	KeyCustomerPhone   = "CustomerPhone"
	KeyServiceType     = "ServiceType"
	KeyCustomerAddress = "CustomerAddress"
	KeyCustomerMessage = "CustomerMessage"
	KeySubmissionTime  = "SubmissionTime"
	KeySource          = "Source"
	KeyRequestID       = "RequestId"
)

const (
	sectionClose = "{{/if}}"

	defaultAddress = "Not provided"
	defaultMessage = "No additional details provided"

	submissionTimeLayout = "2006-01-02 15:04:05"
)

// Substitute replaces every {{key}} in tpl with values[key] in a single pass.
// Unknown placeholders are left untouched and substituted text is never
// scanned again.
func Substitute(tpl string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", values[k])
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// ApplyConditionals resolves the named conditional sections of tpl. A section
// whose flag is false is cut out together with its markers; a section whose
// flag is true keeps its content and loses the markers. Each open marker pairs
// with the first {{/if}} after it, so sections do not nest. An open marker
// without a close marker is left as-is.
func ApplyConditionals(tpl string, sections map[string]bool) string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tpl = applySection(tpl, "{{#if "+name+"}}", sections[name])
	}
	return tpl
}

func applySection(tpl, open string, keep bool) string {
	var b strings.Builder
	b.Grow(len(tpl))

	rest := tpl
	for {
		start := strings.Index(rest, open)
		if start < 0 {
			break
		}
		inner := rest[start+len(open):]
		end := strings.Index(inner, sectionClose)
		if end < 0 {
			break
		}

		b.WriteString(rest[:start])
		if keep {
			b.WriteString(inner[:end])
		}
		rest = inner[end+len(sectionClose):]
	}
	b.WriteString(rest)
	return b.String()
}

// templateValues resolves every placeholder for one request. With escape set
// the values are made safe for an HTML body.
func templateValues(req *domain.QuoteRequest, requestID string, escape bool) map[string]string {
	address := req.Address
	if address == "" {
		address = defaultAddress
	}
	message := req.Message
	if message == "" {
		message = defaultMessage
	}

	values := map[string]string{
		KeyCustomerName:    req.Name,
		KeyCustomerEmail:   req.Email,
		KeyCustomerPhone:   req.Phone,
		KeyServiceType:     domain.ServiceDisplayName(req.Service),
		KeyCustomerAddress: address,
		KeyCustomerMessage: message,
		KeySubmissionTime:  formatSubmissionTime(req),
		KeySource:          req.Source,
		KeyRequestID:       requestID,
	}

	if escape {
		for k, v := range values {
			values[k] = html.EscapeString(v)
		}
	}
	return values
}

func templateSections(req *domain.QuoteRequest) map[string]bool {
	return map[string]bool{
		KeyCustomerAddress: req.Address != "",
		KeyCustomerMessage: req.Message != "",
	}
}

func formatSubmissionTime(req *domain.QuoteRequest) string {
	return req.Timestamp.UTC().Format(submissionTimeLayout) + " UTC"
}

// renderTemplate turns a raw template asset into a finished body. Sections are
// resolved before substitution so submitted text cannot smuggle in markers.
func renderTemplate(tpl string, req *domain.QuoteRequest, requestID string, escape bool) string {
	tpl = ApplyConditionals(tpl, templateSections(req))
	return Substitute(tpl, templateValues(req, requestID, escape))
}
