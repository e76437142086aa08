package encryption

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

func errConfig(message string) error {
	return errs.New("encryption", errs.KindConfig, message)
}

type compiledPattern struct {
	regex   *regexp.Regexp
	pattern FieldPattern
}

// Processor evaluates a Config's field patterns and custom rules
// against request/response bodies, encrypting matching string fields
// in place.
type Processor struct {
	config   Config
	key      *Key
	compiled []compiledPattern
}

// NewProcessor builds a Processor from config, compiling its field
// patterns up front. Patterns that fail to compile as regex are
// skipped with a logged warning, not treated as fatal.
func NewProcessor(config Config) *Processor {
	return &Processor{config: config, compiled: compilePatterns(config.FieldPatterns)}
}

func compilePatterns(patterns []FieldPattern) []compiledPattern {
	var compiled []compiledPattern
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			logging.Get(logging.CategoryEncryption).Warn("failed to compile field pattern %q: %v", p.Pattern, err)
			continue
		}
		compiled = append(compiled, compiledPattern{regex: re, pattern: p})
	}
	return compiled
}

// SetKey installs the key used for subsequent encryption calls.
func (p *Processor) SetKey(key Key) {
	p.key = &key
}

// IsEnabled reports whether auto-encryption is configured and has a key.
func (p *Processor) IsEnabled() bool {
	return p.config.Enabled && p.key != nil
}

// ProcessRequest encrypts matching string fields in requestData in
// place when EncryptRequestBodies is set, returning a summary Result.
func (p *Processor) ProcessRequest(requestData interface{}, ctx *RequestContext) (Result, error) {
	if !p.IsEnabled() {
		return emptyResult(), nil
	}
	if !p.config.EncryptRequestBodies {
		return emptyResult(), nil
	}

	result := newMetadata()
	count, err := p.encryptFieldsInValue(requestData, "", result.EncryptedFields, ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Encrypted: count > 0, FieldsEncrypted: count, Metadata: result}, nil
}

// ProcessResponse encrypts matching string fields in responseData in
// place when EncryptResponseBodies is set.
func (p *Processor) ProcessResponse(responseData interface{}, ctx *RequestContext) (Result, error) {
	if !p.IsEnabled() || !p.config.EncryptResponseBodies {
		return emptyResult(), nil
	}

	result := newMetadata()
	count, err := p.encryptFieldsInValue(responseData, "", result.EncryptedFields, ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Encrypted: count > 0, FieldsEncrypted: count, Metadata: result}, nil
}

// encryptFieldsInValue walks a generic JSON value (map[string]interface{}
// / []interface{} / scalar, as produced by encoding/json.Unmarshal),
// encrypting matching string object fields and recursing into objects
// and arrays. It mutates map values in place since Go maps share their
// underlying storage across the recursive calls that see them.
func (p *Processor) encryptFieldsInValue(value interface{}, currentPath string, encrypted map[string]FieldEncryptionInfo, ctx *RequestContext) (int, error) {
	count := 0

	switch v := value.(type) {
	case map[string]interface{}:
		var toEncrypt []string
		for key := range v {
			fieldPath := joinPath(currentPath, key)
			if p.shouldEncryptField(key, fieldPath, ctx) {
				toEncrypt = append(toEncrypt, key)
			}
		}

		for _, fieldName := range toEncrypt {
			fieldPath := joinPath(currentPath, fieldName)
			strValue, ok := v[fieldName].(string)
			if !ok {
				continue
			}
			encryptedValue, err := EncryptString(*p.key, strValue)
			if err != nil {
				encrypted[fieldPath] = FieldEncryptionInfo{
					FieldPath: fieldPath,
					Algorithm: AlgorithmAES256GCM,
					Success:   false,
					Error:     err.Error(),
				}
				continue
			}
			v[fieldName] = encryptedValue
			encrypted[fieldPath] = FieldEncryptionInfo{
				FieldPath: fieldPath,
				Algorithm: AlgorithmAES256GCM,
				Success:   true,
			}
			count++
		}

		for _, nested := range v {
			n, err := p.encryptFieldsInValue(nested, currentPath, encrypted, ctx)
			if err != nil {
				return count, err
			}
			count += n
		}

	case []interface{}:
		for i, item := range v {
			nestedPath := fmt.Sprintf("%s.[%d]", currentPath, i)
			if currentPath == "" {
				nestedPath = fmt.Sprintf("[%d]", i)
			}
			n, err := p.encryptFieldsInValue(item, nestedPath, encrypted, ctx)
			if err != nil {
				return count, err
			}
			count += n
		}
	}

	return count, nil
}

func joinPath(currentPath, key string) string {
	if currentPath == "" {
		return key
	}
	return currentPath + "." + key
}

func (p *Processor) shouldEncryptField(fieldName, fieldPath string, ctx *RequestContext) bool {
	for _, rule := range p.config.CustomRules {
		if p.ruleMatches(rule, fieldName, fieldPath, ctx) {
			for _, action := range rule.Actions {
				switch action.Kind {
				case ActionEncryptField:
					return true
				case ActionSkipEncryption:
					return false
				}
			}
		}
	}

	for _, cp := range p.compiled {
		text := fieldPath
		if !cp.pattern.CaseSensitive {
			text = strings.ToLower(fieldPath)
		}
		if cp.regex.MatchString(text) {
			return true
		}
	}

	return false
}

func (p *Processor) ruleMatches(rule Rule, fieldName, fieldPath string, ctx *RequestContext) bool {
	for _, cond := range rule.Conditions {
		switch cond.Kind {
		case ConditionFieldMatches:
			if !matchesPattern(fieldName, cond.Pattern) && !matchesPattern(fieldPath, cond.Pattern) {
				return false
			}
		case ConditionHeaderExists:
			if ctx == nil {
				continue
			}
			value, exists := ctx.Headers[cond.HeaderName]
			if !exists {
				return false
			}
			if cond.ValuePattern != nil && !matchesPattern(value, *cond.ValuePattern) {
				return false
			}
		case ConditionPathMatches:
			if ctx == nil {
				continue
			}
			if !matchesPattern(ctx.Path, cond.Pattern) {
				return false
			}
		case ConditionMethodMatches:
			if ctx == nil {
				continue
			}
			if !strings.EqualFold(ctx.Method, cond.Method) {
				return false
			}
		case ConditionContentTypeMatches:
			if ctx == nil || ctx.ContentType == "" {
				return false
			}
			if !matchesPattern(ctx.ContentType, cond.Pattern) {
				return false
			}
		}
	}
	return true
}

// matchesPattern treats pattern as regex when it compiles, falling
// back to a literal substring match otherwise.
func matchesPattern(text, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return strings.Contains(text, pattern)
	}
	return re.MatchString(text)
}

// ValidateConfig rejects an inconsistent configuration: enabled without
// a key, empty/invalid field patterns, or malformed custom rules.
func (p *Processor) ValidateConfig() error {
	if p.config.Enabled && p.key == nil {
		return errConfig("auto-encryption enabled but no encryption key provided")
	}

	for _, pattern := range p.config.FieldPatterns {
		if pattern.Pattern == "" {
			return errConfig("empty field pattern")
		}
		if _, err := regexp.Compile(pattern.Pattern); err != nil {
			return errConfig(fmt.Sprintf("invalid regex pattern %q: %v", pattern.Pattern, err))
		}
	}

	for _, rule := range p.config.CustomRules {
		if rule.Name == "" {
			return errConfig("encryption rule name cannot be empty")
		}
		if len(rule.Conditions) == 0 {
			return errConfig("encryption rule must have at least one condition")
		}
		if len(rule.Actions) == 0 {
			return errConfig("encryption rule must have at least one action")
		}
	}

	return nil
}
