package wsruntime

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
)

func errPattern(message string, cause error) error {
	return errs.Wrap("wsruntime", errs.KindHandlerPattern, message, cause)
}

// PatternKind distinguishes MessagePattern variants.
type PatternKind int

const (
	PatternRegex PatternKind = iota
	PatternJSONPath
	PatternExact
	PatternAny
)

// MessagePattern matches incoming message text, the way a handler
// decides what a message is before acting on it.
type MessagePattern struct {
	kind    PatternKind
	re      *regexp.Regexp
	literal string
}

// NewRegexPattern compiles pattern as a regular expression.
func NewRegexPattern(pattern string) (MessagePattern, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return MessagePattern{}, errPattern("invalid regex pattern", err)
	}
	return MessagePattern{kind: PatternRegex, re: re}, nil
}

// NewJSONPathPattern matches when the JSONPath-like dot-query exists
// in the message, which must be a JSON object or array.
func NewJSONPathPattern(query string) MessagePattern {
	return MessagePattern{kind: PatternJSONPath, literal: query}
}

// NewExactPattern matches when the message equals text exactly.
func NewExactPattern(text string) MessagePattern {
	return MessagePattern{kind: PatternExact, literal: text}
}

// AnyPattern always matches.
func AnyPattern() MessagePattern { return MessagePattern{kind: PatternAny} }

// Matches reports whether text satisfies the pattern.
func (p MessagePattern) Matches(text string) bool {
	switch p.kind {
	case PatternRegex:
		return p.re.MatchString(text)
	case PatternJSONPath:
		_, ok := p.Extract(text, p.literal)
		return ok
	case PatternExact:
		return text == p.literal
	case PatternAny:
		return true
	default:
		return false
	}
}

// Extract parses text as JSON and evaluates the dot-path query
// ("$.user.name", "$.items.0.id") against it, reporting the value and
// whether the path resolved.
func (p MessagePattern) Extract(text, query string) (interface{}, bool) {
	var doc interface{}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, false
	}
	return evalJSONPath(doc, query)
}

// evalJSONPath walks a small dot-path subset: "$" selects the root,
// each subsequent "."-separated segment indexes into a map by key or,
// if numeric, into a slice by position.
func evalJSONPath(doc interface{}, query string) (interface{}, bool) {
	query = strings.TrimPrefix(query, "$")
	query = strings.TrimPrefix(query, ".")
	if query == "" {
		return doc, true
	}

	current := doc
	for _, segment := range strings.Split(query, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			val, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = val
		case []interface{}:
			idx, ok := parseIndex(segment)
			if !ok || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
