package docs

// #region imports
import (
	"context"
	"strings"
	"unicode/utf8"
)

// #endregion

// #region types

// Snippet is one piece of reference material attached to a specialist call.
type Snippet struct {
	ID     string
	Title  string
	Text   string
	Domain string
	Tenant string
}

// Query scopes a document lookup to one tenant and hazard domain.
type Query struct {
	Tenant string
	Domain string
	Text   string
}

// Provider supplies reference snippets for a hazard domain. A provider may
// return nothing; specialists must work without documents.
type Provider interface {
	Documents(ctx context.Context, q Query) ([]Snippet, error)
}

// #endregion types

// #region static

// StaticProvider serves a fixed snippet set, filtered by tenant and
// domain. Snippets with an empty Domain or Tenant match every request.
type StaticProvider struct {
	Snippets []Snippet
}

// Documents returns the snippets registered for the query scope after the
// consistency filter.
func (p *StaticProvider) Documents(ctx context.Context, q Query) ([]Snippet, error) {
	var matched []Snippet
	for _, s := range p.Snippets {
		if s.Domain != "" && s.Domain != q.Domain {
			continue
		}
		if s.Tenant != "" && s.Tenant != q.Tenant {
			continue
		}
		matched = append(matched, s)
	}
	return Sanitize(matched), nil
}

// #endregion static

// #region sanitize

// maxSnippetLen caps a single snippet; longer texts are truncated rather
// than dropped so partial context still reaches the specialist.
const maxSnippetLen = 4000

// Sanitize drops empty and duplicate snippets and truncates oversized ones.
func Sanitize(in []Snippet) []Snippet {
	seen := make(map[string]bool)
	var out []Snippet
	for _, s := range in {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if len(text) > maxSnippetLen {
			// Cut on a rune boundary so accented text stays valid UTF-8.
			cut := maxSnippetLen
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut]
		}
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		s.Text = text
		out = append(out, s)
	}
	return out
}

// Texts flattens snippets into plain strings for prompt assembly.
func Texts(in []Snippet) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s.Title != "" {
			out = append(out, s.Title+": "+s.Text)
			continue
		}
		out = append(out, s.Text)
	}
	return out
}

// #endregion sanitize
