package environment

import (
	"strings"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/workspace"
)

// ValidationResult reports errors and warnings found while validating
// an Environment.
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// Validate checks env's name and variable keys/values, matching
// EnvironmentManager::validate_environment: an empty name and empty
// keys are errors; empty values are warnings only. Keys are not checked
// for duplicates, since the variables map cannot hold any.
func Validate(env *workspace.Environment) ValidationResult {
	var errs, warnings []string

	if strings.TrimSpace(env.Name) == "" {
		errs = append(errs, "environment name cannot be empty")
	}

	for key, value := range env.Variables {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, "variable key cannot be empty")
		}
		if strings.TrimSpace(value) == "" {
			warnings = append(warnings, "variable '"+key+"' has empty value")
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs, Warnings: warnings}
}
