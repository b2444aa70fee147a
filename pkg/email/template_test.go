package email_test

import (
	"testing"

	"sweepo-backend/pkg/email"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name   string
		tpl    string
		values map[string]string
		want   string
	}{
		{
			name:   "replaces every occurrence",
			tpl:    "{{A}} and {{A}} then {{B}}",
			values: map[string]string{"A": "x", "B": "y"},
			want:   "x and x then y",
		},
		{
			name:   "leaves unknown placeholders alone",
			tpl:    "Hi {{Name}}, see {{Unknown}}",
			values: map[string]string{"Name": "Jo"},
			want:   "Hi Jo, see {{Unknown}}",
		},
		{
			name:   "does not rescan substituted text",
			tpl:    "{{A}}",
			values: map[string]string{"A": "{{B}}", "B": "nope"},
			want:   "{{B}}",
		},
		{
			name:   "treats an empty value as a real value",
			tpl:    "[{{A}}]",
			values: map[string]string{"A": ""},
			want:   "[]",
		},
		{
			name: "no values",
			tpl:  "plain {{A}}",
			want: "plain {{A}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, email.Substitute(tt.tpl, tt.values))
		})
	}
}

func TestApplyConditionals(t *testing.T) {
	tests := []struct {
		name     string
		tpl      string
		sections map[string]bool
		want     string
	}{
		{
			name:     "keeps content when the flag is true",
			tpl:      "a{{#if X}}b{{/if}}c",
			sections: map[string]bool{"X": true},
			want:     "abc",
		},
		{
			name:     "drops content when the flag is false",
			tpl:      "a{{#if X}}b{{/if}}c",
			sections: map[string]bool{"X": false},
			want:     "ac",
		},
		{
			name:     "handles repeated sections",
			tpl:      "{{#if X}}1{{/if}}-{{#if X}}2{{/if}}",
			sections: map[string]bool{"X": false},
			want:     "-",
		},
		{
			name:     "resolves independent sections",
			tpl:      "{{#if X}}x{{/if}}|{{#if Y}}y{{/if}}",
			sections: map[string]bool{"X": true, "Y": false},
			want:     "x|",
		},
		{
			name:     "leaves an unterminated marker as-is",
			tpl:      "a{{#if X}}b",
			sections: map[string]bool{"X": false},
			want:     "a{{#if X}}b",
		},
		{
			name:     "ignores sections nobody asked about",
			tpl:      "{{#if Z}}z{{/if}}",
			sections: map[string]bool{"X": false},
			want:     "{{#if Z}}z{{/if}}",
		},
		{
			name:     "spans lines",
			tpl:      "Name\n{{#if X}}Address: here\n{{/if}}Done",
			sections: map[string]bool{"X": false},
			want:     "Name\nDone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, email.ApplyConditionals(tt.tpl, tt.sections))
		})
	}
}
