// Package environment implements {{var}} template substitution and
// environment validation/export, operating on
// github.com/SaaSy-Solutions/mockforge-sub004/internal/workspace.Environment
// values.
package environment

import (
	"fmt"
	"strings"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/workspace"
)

// Substitution is the result of substituting variables into a template.
type Substitution struct {
	Value   string
	Success bool
	Errors  []string
}

// isNameChar reports whether c is valid inside a {{variable}} name.
func isNameChar(c byte) bool {
	return c == '_' || c == '-' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Substitute scans template left to right for {{name}} placeholders
// and replaces them with values from variables. Unknown variables are
// left verbatim in the output and recorded as an error; malformed
// placeholders (empty name, invalid character, unterminated) are
// treated as literal text.
func Substitute(template string, variables map[string]string) Substitution {
	var out strings.Builder
	var errs []string
	success := true

	i := 0
	for i < len(template) {
		if template[i] == '{' && i+1 < len(template) && template[i+1] == '{' {
			name, end, ok := scanVariableName(template, i+2)
			if !ok {
				out.WriteString("{{")
				i += 2
				continue
			}
			if value, found := variables[name]; found {
				out.WriteString(value)
			} else {
				success = false
				errs = append(errs, fmt.Sprintf("variable %q not found", name))
				out.WriteString("{{" + name + "}}")
			}
			i = end
			continue
		}
		out.WriteByte(template[i])
		i++
	}

	return Substitution{Value: out.String(), Success: success, Errors: errs}
}

// scanVariableName reads a variable name starting at start (just past
// "{{"), stopping at "}}". Returns the name, the index just past the
// closing "}}", and whether a well-formed name was found.
func scanVariableName(s string, start int) (string, int, bool) {
	i := start
	for i < len(s) {
		if s[i] == '}' {
			if i+1 < len(s) && s[i+1] == '}' {
				name := s[start:i]
				if name == "" {
					return "", 0, false
				}
				return name, i + 2, true
			}
			return "", 0, false
		}
		if !isNameChar(s[i]) {
			return "", 0, false
		}
		i++
	}
	return "", 0, false
}

// SubstituteWithActive substitutes template using registry's active
// environment's variables, or no variables if none is active — every
// placeholder then reports as not-found.
func SubstituteWithActive(template string, env *workspace.Environment) Substitution {
	if env == nil {
		return Substitute(template, nil)
	}
	return Substitute(template, env.Variables)
}
