package environment

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/workspace"
)

// ExportFormat selects an Environment's serialization on Export.
type ExportFormat int

const (
	FormatJSON ExportFormat = iota
	FormatYAML
	FormatDotEnv
	FormatCustom
)

func errEnv(message string, cause error) error {
	return errs.Wrap("environment", errs.KindGeneric, message, cause)
}

// Export serializes env per format. customTemplate is only consulted
// when format is FormatCustom: every "{{key}}" occurrence is replaced
// literally with the variable's value.
func Export(env *workspace.Environment, format ExportFormat, customTemplate string) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return "", errEnv("failed to serialize environment", err)
		}
		return string(data), nil

	case FormatYAML:
		data, err := yaml.Marshal(env)
		if err != nil {
			return "", errEnv("failed to serialize environment", err)
		}
		return string(data), nil

	case FormatDotEnv:
		keys := sortedKeys(env.Variables)
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "%s=%s\n", k, env.Variables[k])
		}
		return b.String(), nil

	case FormatCustom:
		result := customTemplate
		for key, value := range env.Variables {
			result = strings.ReplaceAll(result, "{{"+key+"}}", value)
		}
		return result, nil

	default:
		return "", errEnv("unknown export format", nil)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Import deserializes an Environment from JSON and validates it.
func Import(jsonData string) (*workspace.Environment, error) {
	var env workspace.Environment
	if err := json.Unmarshal([]byte(jsonData), &env); err != nil {
		return nil, errEnv("failed to deserialize environment", err)
	}
	if v := Validate(&env); !v.IsValid {
		return nil, errEnv(fmt.Sprintf("environment validation failed: %v", v.Errors), nil)
	}
	return &env, nil
}
