package changelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universal-changesets/changeset/internal/changeset"
)

func TestFormatTerminal(t *testing.T) {
	t.Parallel()

	version := semver.MustParse("1.3.0")
	changes := changeset.ChangeSet{
		{Type: changeset.Patch, Summary: "Fix crash"},
		{Type: changeset.Minor, Summary: "Add flag", Description: "Adds --diff."},
	}

	tests := map[string]struct {
		opts        FormatOptions
		contains    []string
		notContains []string
	}{
		"plain is the rendered markdown": {
			opts:     FormatOptions{Plain: true},
			contains: []string{Render(version, changes) + "\n"},
		},
		"styled groups in tier order": {
			opts:        FormatOptions{MaxWidth: 80},
			contains:    []string{"## 1.3.0", "Features", "  - ", "Add flag", "    Adds --diff.", "Patches", "Fix crash"},
			notContains: []string{"Breaking Changes", "####"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, FormatTerminal(version, changes, &buf, tt.opts))
			out := buf.String()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
			if !tt.opts.Plain {
				assert.Less(t, strings.Index(out, "Features"), strings.Index(out, "Patches"))
			}
		})
	}
}

func TestFormatTerminal_NoChanges(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, FormatTerminal(semver.MustParse("1.0.0"), nil, &buf, FormatOptions{}))
	assert.Empty(t, buf.String())
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text     string
		maxWidth int
		want     string
	}{
		"short text unchanged":     {text: "short", maxWidth: 20, want: "short"},
		"zero width unchanged":     {text: "anything goes", maxWidth: 0, want: "anything goes"},
		"wraps at last space":      {text: "alpha beta gamma", maxWidth: 11, want: "alpha beta\n  gamma"},
		"hard break without space": {text: "abcdefghij", maxWidth: 4, want: "abcd\n  efgh\n  ij"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, wrapText(tt.text, tt.maxWidth, "  "))
		})
	}
}

func TestResolveWidth(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		maxWidth int
		want     int
	}{
		"unknown width":  {maxWidth: 0, want: 80},
		"negative width": {maxWidth: -1, want: 80},
		"terminal width": {maxWidth: 120, want: 120},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, resolveWidth(tt.maxWidth))
		})
	}
}
