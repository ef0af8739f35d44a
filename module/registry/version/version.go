// Package version orders the version strings registries publish.
//
// Every version is split into a numeric core (the leading run of digit
// components joined by ".", "-" or "_", after an optional "v") and a
// trailing qualifier. Cores compare numerically component by component,
// missing components counting as 0, so 2.12.7.1 ranks above 2.0.0 and the
// CRAN style 1.0-5 ranks above 1.0. Among equal cores a plain release ranks
// above one carrying a qualifier (1.0.0 over 1.0.0-rc.1), qualifiers compare
// token by token, then the longer core wins. Equal precedence falls back to
// the raw string, so the ordering is total and stable for any input
// permutation.
package version

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
)

type token struct {
	digits bool
	text   string
}

type parsed struct {
	raw       string
	core      []string
	qualifier []token
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isCoreSep(b byte) bool { return b == '.' || b == '-' || b == '_' }

func parse(s string) parsed {
	p := parsed{raw: s}

	i := 0
	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') && isDigit(s[1]) {
		i = 1
	}
	for i < len(s) && isDigit(s[i]) {
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		p.core = append(p.core, s[start:i])
		if i+1 < len(s) && isCoreSep(s[i]) && isDigit(s[i+1]) {
			i++
			continue
		}
		break
	}

	rest := s[i:]
	if len(p.core) == 0 {
		rest = s
	}
	if plus := strings.IndexByte(rest, '+'); plus >= 0 {
		rest = rest[:plus] // build metadata carries no precedence
	}
	// Semver strings use their own prerelease grammar for the qualifier.
	if rest != "" && len(p.core) > 0 && len(p.core) <= 3 {
		if v, err := semver.NewVersion(s); err == nil {
			rest = v.Prerelease()
		}
	}
	p.qualifier = tokenize(rest)
	return p
}

// tokenize splits on separators and on every digit/letter boundary, so
// "r10" and "r2" compare as ["r",10] and ["r",2].
func tokenize(s string) []token {
	var (
		out []token
		cur strings.Builder
		dig bool
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, token{digits: dig, text: cur.String()})
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '.' || r == '-' || r == '_' || r == '+' || unicode.IsSpace(r):
			flush()
		default:
			d := r >= '0' && r <= '9'
			if cur.Len() > 0 && d != dig {
				flush()
			}
			dig = d
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareTokens(a, b token) int {
	if a.digits != b.digits {
		// numeric identifiers rank below alphanumeric ones: rc.1 < rc.final
		if a.digits {
			return -1
		}
		return 1
	}
	if a.digits {
		return compareNumeric(a.text, b.text)
	}
	return strings.Compare(strings.ToLower(a.text), strings.ToLower(b.text))
}

func compareCore(a, b []string) int {
	for i := 0; i < max(len(a), len(b)); i++ {
		x, y := "0", "0"
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := compareNumeric(x, y); c != 0 {
			return c
		}
	}
	return 0
}

func compareQualifier(a, b []token) int {
	for i := 0; i < min(len(a), len(b)); i++ {
		if c := compareTokens(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareParsed(a, b parsed) int {
	// anything with a numeric core is newer than a bare tag
	if c := cmp.Compare(min(len(a.core), 1), min(len(b.core), 1)); c != 0 {
		return c
	}
	if c := compareCore(a.core, b.core); c != 0 {
		return c
	}
	if len(a.core) > 0 {
		// release above prerelease
		if c := cmp.Compare(len(b.qualifier), len(a.qualifier)); c != 0 && min(len(a.qualifier), len(b.qualifier)) == 0 {
			return c
		}
	}
	if c := compareQualifier(a.qualifier, b.qualifier); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.core), len(b.core)); c != 0 {
		return c
	}
	return strings.Compare(a.raw, b.raw)
}

// Compare returns -1, 0 or +1 as a is older than, the same as, or newer
// than b. It returns 0 only when a == b.
func Compare(a, b string) int {
	return compareParsed(parse(a), parse(b))
}

// Sort returns the distinct, non-empty versions of in ordered newest first.
// Surrounding whitespace is trimmed. The input slice is not modified.
func Sort(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	items := make([]parsed, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		items = append(items, parse(v))
	}

	slices.SortFunc(items, func(a, b parsed) int {
		return compareParsed(b, a)
	})

	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.raw
	}
	return out
}

// Latest returns the newest version in in, or "" if there is none.
func Latest(in []string) string {
	sorted := Sort(in)
	if len(sorted) == 0 {
		return ""
	}
	return sorted[0]
}
