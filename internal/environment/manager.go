package environment

import (
	"strings"
	"time"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/workspace"
)

// ManagerStats summarizes a set of environments.
type ManagerStats struct {
	TotalEnvironments int
	TotalVariables    int
	ActiveEnvironments int
}

// Stats aggregates counts across envs.
func Stats(envs []*workspace.Environment) ManagerStats {
	var vars, active int
	for _, e := range envs {
		vars += len(e.Variables)
		if e.Active {
			active++
		}
	}
	return ManagerStats{TotalEnvironments: len(envs), TotalVariables: vars, ActiveEnvironments: active}
}

// FindByName returns every environment whose name contains query
// (case-insensitive).
func FindByName(envs []*workspace.Environment, query string) []*workspace.Environment {
	q := strings.ToLower(query)
	var out []*workspace.Environment
	for _, e := range envs {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

// AllVariables flattens every environment's variables into one map;
// later environments in envs win on key collision.
func AllVariables(envs []*workspace.Environment) map[string]string {
	all := make(map[string]string)
	for _, e := range envs {
		for k, v := range e.Variables {
			all[k] = v
		}
	}
	return all
}

// Clone produces an inactive copy of src under a new name and ID.
func Clone(src *workspace.Environment, newName string) *workspace.Environment {
	cp := src.Clone()
	cp.ID = workspace.NewID()
	cp.Name = newName
	cp.Active = false
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	return cp
}

// Merge combines the variables of envs (later entries win on key
// collision) into a fresh, inactive environment named mergedName.
func Merge(envs []*workspace.Environment, mergedName string) *workspace.Environment {
	merged := workspace.NewEnvironment(mergedName)
	for _, e := range envs {
		for k, v := range e.Variables {
			merged.Variables[k] = v
		}
	}
	return merged
}
