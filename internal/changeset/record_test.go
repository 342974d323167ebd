package changeset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universal-changesets/changeset/internal/apperr"
)

func TestParseRecord(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    Change
		wantErr bool
	}{
		"summary only": {
			content: "---\nchangeset/type: major\n---\n\n# Breaking change 1\n",
			want:    Change{Type: Major, Summary: "Breaking change 1"},
		},
		"description after separator": {
			content: "---\nchangeset/type: minor\n---\n\n# Feature 1\n\n---\n\nfeature description\n",
			want:    Change{Type: Minor, Summary: "Feature 1", Description: "feature description"},
		},
		"description without separator": {
			content: "---\nchangeset/type: patch\n---\n\n# Patch 1\n\nFixes the thing.\nSecond line.\n",
			want:    Change{Type: Patch, Summary: "Patch 1", Description: "Fixes the thing.\nSecond line."},
		},
		"crlf line endings": {
			content: "---\r\nchangeset/type: patch\r\n---\r\n\r\n# Windows\r\n",
			want:    Change{Type: Patch, Summary: "Windows"},
		},
		"leading blank lines": {
			content: "\n\n---\nchangeset/type: patch\n---\n# Tight\n",
			want:    Change{Type: Patch, Summary: "Tight"},
		},
		"missing metadata block": {
			content: "# Just a heading\n",
			wantErr: true,
		},
		"unterminated metadata block": {
			content: "---\nchangeset/type: major\n# heading\n",
			wantErr: true,
		},
		"missing type key": {
			content: "---\nother: major\n---\n\n# heading\n",
			wantErr: true,
		},
		"invalid type value": {
			content: "---\nchangeset/type: huge\n---\n\n# heading\n",
			wantErr: true,
		},
		"type value is case sensitive": {
			content: "---\nchangeset/type: Minor\n---\n\n# heading\n",
			wantErr: true,
		},
		"no heading": {
			content: "---\nchangeset/type: minor\n---\n\nsome text but no heading\n",
			wantErr: true,
		},
		"subheading is not a summary": {
			content: "---\nchangeset/type: minor\n---\n\n## not a summary\n",
			wantErr: true,
		},
		"invalid yaml": {
			content: "---\nchangeset/type: [major\n---\n\n# heading\n",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRecord("record.md", []byte(tt.content))
			if tt.wantErr {
				require.ErrorIs(t, err, apperr.ErrMalformedRecord)
				assert.Contains(t, err.Error(), "record.md")
				return
			}
			require.NoError(t, err)
			tt.want.Path = "record.md"
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRecord_RoundTrips(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		bump        IncrementType
		summary     string
		description string
	}{
		"without description": {bump: Major, summary: "Drop Go 1.21"},
		"with description":    {bump: Minor, summary: "Add workspaces", description: "Multiple packages\nin one repo."},
		"patch":               {bump: Patch, summary: "Fix typo", description: "  padded  "},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			content := FormatRecord(tt.bump, tt.summary, tt.description)
			got, err := ParseRecord("x.md", content)
			require.NoError(t, err)
			assert.Equal(t, tt.bump, got.Type)
			assert.Equal(t, tt.summary, got.Summary)
			assert.Equal(t, strings.TrimSpace(tt.description), got.Description)
		})
	}
}

func TestFormatRecord_Layout(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"---\nchangeset/type: major\n---\n\n# message\n",
		string(FormatRecord(Major, "message", "")))
}
