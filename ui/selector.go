package ui

import (
	"fmt"
	"strings"
)

// Selector is a compiled simple selector: an optional tag plus any number
// of #id, .class and [data-key] / [data-key=value] parts, all of which
// must hold on a single element. Descendant combinators are not supported;
// the registry's ancestor walk covers that need.
type Selector struct {
	raw     string
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	key      string
	value    string
	hasValue bool
}

// ParseSelector compiles a selector string. The empty string is the
// catch-all selector and matches nothing here; callers treat it specially.
func ParseSelector(s string) (Selector, error) {
	sel := Selector{raw: s}
	rest := strings.TrimSpace(s)
	if rest == "" {
		return sel, fmt.Errorf("empty selector")
	}
	if strings.ContainsAny(rest, " >~+") {
		return sel, fmt.Errorf("selector %q: combinators are not supported", s)
	}

	// Leading tag name, if any.
	i := 0
	for i < len(rest) && rest[i] != '#' && rest[i] != '.' && rest[i] != '[' {
		i++
	}
	sel.tag = rest[:i]
	rest = rest[i:]

	for rest != "" {
		switch rest[0] {
		case '#':
			part, tail := takeSimple(rest[1:])
			if part == "" {
				return sel, fmt.Errorf("selector %q: empty id", s)
			}
			sel.id = part
			rest = tail
		case '.':
			part, tail := takeSimple(rest[1:])
			if part == "" {
				return sel, fmt.Errorf("selector %q: empty class", s)
			}
			sel.classes = append(sel.classes, part)
			rest = tail
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return sel, fmt.Errorf("selector %q: unterminated attribute", s)
			}
			body := rest[1:end]
			rest = rest[end+1:]
			key, value, hasValue := strings.Cut(body, "=")
			key = strings.TrimSpace(key)
			if key == "" {
				return sel, fmt.Errorf("selector %q: empty attribute name", s)
			}
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			sel.attrs = append(sel.attrs, attrMatch{key: key, value: value, hasValue: hasValue})
		default:
			return sel, fmt.Errorf("selector %q: unexpected %q", s, rest[0])
		}
	}
	return sel, nil
}

func takeSimple(s string) (part, rest string) {
	i := 0
	for i < len(s) && s[i] != '#' && s[i] != '.' && s[i] != '[' {
		i++
	}
	return s[:i], s[i:]
}

func (s Selector) String() string { return s.raw }

// Matches reports whether el satisfies every part of the selector.
// Attribute parts match against the element dataset: [data-k] tests key
// presence, [data-k=v] tests the value. Keys may be written with or
// without the data- prefix.
func (s Selector) Matches(el *Element) bool {
	if el == nil {
		return false
	}
	if s.tag != "" && s.tag != "*" && el.Tag != s.tag {
		return false
	}
	if s.id != "" && el.ID != s.id {
		return false
	}
	for _, c := range s.classes {
		if !el.HasClass(c) {
			return false
		}
	}
	for _, a := range s.attrs {
		key := strings.TrimPrefix(a.key, "data-")
		v, ok := el.Dataset[key]
		if !ok {
			return false
		}
		if a.hasValue && v != a.value {
			return false
		}
	}
	return true
}
