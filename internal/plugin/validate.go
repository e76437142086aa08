package plugin

import (
	"os"
	"path/filepath"
	"strings"
)

var dangerousCapabilities = map[string]bool{
	"raw_syscalls":  true,
	"kernel_access": true,
	"direct_memory": true,
}

// validatePluginPath canonicalizes path and rejects it unless it falls
// within one of the runtime's allowed plugin directories.
func validatePluginPath(path string, allowedDirs []string) (string, error) {
	canonical, err := filepath.Abs(path)
	if err != nil {
		return "", errSecurity("invalid plugin path: " + err.Error())
	}
	resolved, err := filepath.EvalSymlinks(canonical)
	if err == nil {
		canonical = resolved
	}
	if len(allowedDirs) == 0 {
		return "", errSecurity("no allowed plugin paths configured")
	}
	for _, dir := range allowedDirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absDir, canonical)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return canonical, nil
		}
	}
	return "", errSecurity("plugin path " + canonical + " is not within allowed directories")
}

const maxPluginFileSize = 50 * 1024 * 1024

// validateFileSize rejects any module file over 50 MiB.
func validateFileSize(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errSecurity("cannot read plugin file metadata: " + err.Error())
	}
	if info.Size() > maxPluginFileSize {
		return errSecurity("plugin file size exceeds the 50 MiB maximum")
	}
	return nil
}

// validateCapabilities rejects a manifest's declared resource needs if
// any exceed the runtime's configured maxima.
func validateCapabilities(caps Capabilities, config RuntimeConfig) error {
	if caps.MaxMemoryBytes > config.MaxMemoryPerPlugin {
		return errSecurity("plugin memory limit exceeds runtime limit")
	}
	if caps.MaxCPUPercent > config.MaxCPUPerPlugin {
		return errSecurity("plugin CPU limit exceeds runtime limit")
	}
	if caps.MaxExecutionTimeMs > config.MaxExecutionTimeMs {
		return errSecurity("plugin execution time limit exceeds runtime limit")
	}
	if caps.AllowNetwork && !config.AllowNetworkAccess {
		return errSecurity("plugin requires network access but runtime disallows it")
	}
	return nil
}

func isNameChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-'
}

// validateManifestSecurity rejects a manifest with unsafe or malformed
// identity fields or any dangerous declared capability.
func validateManifestSecurity(m Manifest) error {
	if m.Name == "" {
		return errSecurity("plugin name is empty")
	}
	for _, c := range m.Name {
		if !isNameChar(c) {
			return errSecurity("plugin name contains unsafe characters")
		}
	}
	for _, cap := range m.Capabilities {
		if dangerousCapabilities[cap] {
			return errSecurity("dangerous capability not allowed: " + cap)
		}
	}
	if m.Author == "" || len(m.Author) > 100 {
		return errSecurity("invalid author field in manifest")
	}
	if m.ID == "" || len(m.ID) > 100 {
		return errSecurity("invalid plugin ID format")
	}
	if len(m.Description) > 1000 {
		return errSecurity("plugin description too long")
	}
	return nil
}

var allowedModuleImports = map[string]bool{
	"fmt": true, "strings": true, "strconv": true, "encoding/json": true,
	"math": true, "sort": true, "time": true,
}

// validateModuleSecurity scans guest source for disallowed imports and
// private (leading-underscore) exports, and confirms the required
// init/process exports are present.
func validateModuleSecurity(source string) error {
	for _, imp := range extractImports(source) {
		if !allowedModuleImports[imp] {
			return errSecurity("disallowed import module: " + imp)
		}
	}

	hasInit := strings.Contains(source, "func Init(")
	hasProcess := strings.Contains(source, "func Process(")
	if !hasInit || !hasProcess {
		return errSecurity("plugin must export 'Init' and 'Process' functions")
	}
	for _, name := range extractExportedFuncNames(source) {
		if strings.HasPrefix(name, "_") {
			return errSecurity("private export function not allowed: " + name)
		}
	}
	return nil
}

func extractImports(source string) []string {
	var imports []string
	inBlock := false
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case inBlock && trimmed == ")":
			inBlock = false
		case inBlock:
			imports = append(imports, strings.Trim(trimmed, `"`))
		case strings.HasPrefix(trimmed, "import "):
			imports = append(imports, strings.Trim(strings.TrimPrefix(trimmed, "import "), `"`))
		}
	}
	return imports
}

func extractExportedFuncNames(source string) []string {
	var names []string
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "func ") {
			continue
		}
		rest := strings.TrimPrefix(trimmed, "func ")
		end := strings.IndexAny(rest, "(")
		if end < 0 {
			continue
		}
		names = append(names, rest[:end])
	}
	return names
}
