// Package encryption evaluates automatic field/header encryption rules
// against request and response bodies, and provides the AES-256-GCM
// primitive those rules apply.
package encryption

import (
	"strings"
	"time"
)

// Algorithm identifies an encryption cipher. AES256GCM is the only
// algorithm this engine actually performs; the rest exist so rules can
// name them even though selecting one is currently inert (see Action).
type Algorithm string

const (
	AlgorithmAES256GCM    Algorithm = "aes256gcm"
	AlgorithmChaCha20Poly Algorithm = "chacha20poly1305"
)

// Key is a named symmetric key available to the encryption engine.
type Key struct {
	ID     string
	Secret []byte
}

// FieldPattern matches field names/paths for automatic encryption.
type FieldPattern struct {
	Pattern       string
	CaseSensitive bool
	Algorithm     *Algorithm
}

// ConditionKind discriminates a Condition's shape.
type ConditionKind string

const (
	ConditionFieldMatches       ConditionKind = "field_matches"
	ConditionHeaderExists       ConditionKind = "header_exists"
	ConditionPathMatches        ConditionKind = "path_matches"
	ConditionMethodMatches      ConditionKind = "method_matches"
	ConditionContentTypeMatches ConditionKind = "content_type_matches"
)

// Condition is one test a Rule's conditions list evaluates.
type Condition struct {
	Kind         ConditionKind
	Pattern      string
	HeaderName   string
	ValuePattern *string
	Method       string
}

// ActionKind discriminates an Action's shape.
type ActionKind string

const (
	ActionEncryptField   ActionKind = "encrypt_field"
	ActionEncryptHeader  ActionKind = "encrypt_header"
	ActionSkipEncryption ActionKind = "skip_encryption"
	ActionUseAlgorithm   ActionKind = "use_algorithm"
)

// Action is one effect a matching Rule applies. Only ActionEncryptField
// and ActionSkipEncryption are honored by field traversal today;
// ActionEncryptHeader and ActionUseAlgorithm are parsed and validated
// but otherwise inert, matching the behavior this was grounded on.
type Action struct {
	Kind       ActionKind
	FieldPath  string
	HeaderName string
	Algorithm  Algorithm
}

// Rule is a named, ordered condition/action pair evaluated against a
// field and its request context.
type Rule struct {
	Name       string
	Conditions []Condition
	Actions    []Action
}

// RequestContext is the request metadata rule conditions are matched
// against: method, path, headers, and derived content type.
type RequestContext struct {
	Method      string
	Path        string
	Headers     map[string]string
	ContentType string
}

// NewRequestContext builds a RequestContext, deriving ContentType from
// a case-insensitive "content-type" header lookup.
func NewRequestContext(method, path string, headers map[string]string) *RequestContext {
	contentType := ""
	for k, v := range headers {
		if strings.EqualFold(k, "content-type") {
			contentType = v
			break
		}
	}
	return &RequestContext{Method: method, Path: path, Headers: headers, ContentType: contentType}
}

// Config configures an automatic encryption Processor.
type Config struct {
	Enabled                     bool
	KeyID                       string
	FieldPatterns               []FieldPattern
	HeaderPatterns              []string
	EncryptEnvironmentVariables bool
	EncryptRequestBodies        bool
	EncryptResponseBodies       bool
	CustomRules                 []Rule
}

// DefaultConfig mirrors AutoEncryptionConfig::default(): disabled, with
// no patterns or rules configured.
func DefaultConfig() Config {
	return Config{Enabled: false, KeyID: "default"}
}

// PresetConfig mirrors AutoEncryptionProcessor::default_config(): a
// ready-to-enable configuration seeded with the common sensitive-data
// patterns.
func PresetConfig() Config {
	return Config{
		Enabled:                     false,
		KeyID:                       "auto_encryption_key",
		FieldPatterns:               DefaultFieldPatterns(),
		HeaderPatterns:              DefaultHeaderPatterns(),
		EncryptEnvironmentVariables: true,
		EncryptRequestBodies:        true,
		EncryptResponseBodies:       false,
	}
}

// DefaultFieldPatterns are the common sensitive-field name patterns.
func DefaultFieldPatterns() []FieldPattern {
	names := []string{"(?i)password", "(?i)secret", "(?i)token", "(?i)key", "(?i)auth"}
	patterns := make([]FieldPattern, len(names))
	for i, n := range names {
		patterns[i] = FieldPattern{Pattern: n, CaseSensitive: false}
	}
	return patterns
}

// DefaultHeaderPatterns are the common sensitive-header names.
func DefaultHeaderPatterns() []string {
	return []string{"authorization", "x-api-key", "x-auth-token", "cookie"}
}

// FieldEncryptionInfo records the outcome of encrypting one field.
type FieldEncryptionInfo struct {
	FieldPath string
	Algorithm Algorithm
	Success   bool
	Error     string
}

// HeaderEncryptionInfo records the outcome of encrypting one header.
type HeaderEncryptionInfo struct {
	HeaderName string
	Algorithm  Algorithm
	Success    bool
	Error      string
}

// Metadata accumulates every encryption outcome from one processing pass.
type Metadata struct {
	EncryptedFields  map[string]FieldEncryptionInfo
	EncryptedHeaders map[string]HeaderEncryptionInfo
	EncryptedAt      time.Time
}

func newMetadata() Metadata {
	return Metadata{
		EncryptedFields:  make(map[string]FieldEncryptionInfo),
		EncryptedHeaders: make(map[string]HeaderEncryptionInfo),
		EncryptedAt:      time.Now().UTC(),
	}
}

// Result summarizes one ProcessRequest/ProcessResponse pass.
type Result struct {
	Encrypted       bool
	FieldsEncrypted int
	HeadersEncrypted int
	Metadata        Metadata
}

func emptyResult() Result {
	return Result{Metadata: newMetadata()}
}
