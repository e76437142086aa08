// Package config holds the nested YAML configuration surface consumed
// by the runtime engine (spec §6). Each sub-config matches the keys
// named in the specification's "Config surface" section.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration object, loaded once at startup and
// passed down as an explicit dependency rather than a package global.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Logging      LoggingConfig      `yaml:"logging"`
	Workspace    WorkspaceConfig    `yaml:"workspace"`
	Persona      PersonaConfig      `yaml:"persona"`
	DataGen      DataGenConfig      `yaml:"datagen"`
	RAG          RAGConfig          `yaml:"rag"`
	VDB          VDBConfig          `yaml:"vdb"`
	WS           WSConfig           `yaml:"ws"`
	Chaos        ChaosConfig        `yaml:"chaos"`
	Plugin       PluginConfig       `yaml:"plugin"`
	AccessReview AccessReviewConfig `yaml:"access_review"`
	Encryption   EncryptionConfig   `yaml:"auto_encryption"`
}

// LoggingConfig drives internal/logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Dir        string          `yaml:"dir"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories"`
}

// WorkspaceConfig bounds the Workspace / Route Registry (4.D).
type WorkspaceConfig struct {
	MaxWorkspaces          int    `yaml:"max_workspaces"`
	DefaultWorkspaceName   string `yaml:"default_workspace_name"`
	AutoSaveIntervalSecond int    `yaml:"auto_save_interval_seconds"`
}

// PersonaConfig configures the Persona Registry (4.B).
type PersonaConfig struct {
	DefaultTraits map[string]string `yaml:"default_traits"`
}

// DataGenConfig configures the Data Generator (4.C).
type DataGenConfig struct {
	RealisticMode         bool              `yaml:"realistic_mode"`
	DefaultArraySize      int               `yaml:"default_array_size"`
	MaxArraySize          int               `yaml:"max_array_size"`
	IncludeOptionalFields bool              `yaml:"include_optional_fields"`
	FieldMappings         map[string]string `yaml:"field_mappings"`
	ValidateGeneratedData bool              `yaml:"validate_generated_data"`
	EnableBackstories     bool              `yaml:"enable_backstories"`
}

// RAGConfig mirrors spec §6's RAG config surface exactly.
type RAGConfig struct {
	Provider               string  `yaml:"provider"`
	APIEndpoint            string  `yaml:"api_endpoint"`
	APIKey                 string  `yaml:"api_key"`
	Model                  string  `yaml:"model"`
	MaxTokens              int     `yaml:"max_tokens"`
	Temperature            float64 `yaml:"temperature"`
	ContextWindow          int     `yaml:"context_window"`
	SemanticSearchEnabled  bool    `yaml:"semantic_search_enabled"`
	EmbeddingProvider      string  `yaml:"embedding_provider"`
	EmbeddingModel         string  `yaml:"embedding_model"`
	EmbeddingEndpoint      string  `yaml:"embedding_endpoint"`
	SimilarityThreshold    float64 `yaml:"similarity_threshold"`
	MaxChunks              int     `yaml:"max_chunks"`
	RequestTimeoutSeconds  int     `yaml:"request_timeout_seconds"`
	MaxRetries             int     `yaml:"max_retries"`
}

// VDBBackendKind selects the Virtual Database backend (spec §6).
type VDBBackendKind string

const (
	VDBBackendSQLite   VDBBackendKind = "sqlite"
	VDBBackendJSON     VDBBackendKind = "json"
	VDBBackendMemory   VDBBackendKind = "memory"
	VDBBackendPostgres VDBBackendKind = "postgres"
)

// VDBConfig selects and configures the Virtual Database backend (4.A).
type VDBConfig struct {
	Backend VDBBackendKind `yaml:"backend"`
	Path    string         `yaml:"path"`
	DSN     string         `yaml:"dsn"`
}

// WSConfig configures the WebSocket Handler Runtime (4.F).
type WSConfig struct {
	HotReloadEnabled  bool   `yaml:"hot_reload_enabled"`
	HotReloadConfig   string `yaml:"hot_reload_config_path"`
	RoomBufferSize    int    `yaml:"room_buffer_size"`
}

// ChaosConfig configures the Chaos Analytics & Recommendation Engine (4.G).
type ChaosConfig struct {
	MinConfidence       float64 `yaml:"min_confidence"`
	MaxRecommendations  int     `yaml:"max_recommendations"`
	EnableLearning      bool    `yaml:"enable_learning"`
	AnalysisWindowHours int     `yaml:"analysis_window_hours"`
}

// PluginConfig mirrors spec §6's plugin runtime config surface exactly.
type PluginConfig struct {
	MaxMemoryPerPlugin     int64    `yaml:"max_memory_per_plugin"`
	MaxCPUPerPlugin        float64  `yaml:"max_cpu_per_plugin"`
	MaxExecutionTimeMs     int64    `yaml:"max_execution_time_ms"`
	AllowNetworkAccess     bool     `yaml:"allow_network_access"`
	AllowedFSPaths         []string `yaml:"allowed_fs_paths"`
	MaxConcurrentExecutions int     `yaml:"max_concurrent_executions"`
	CacheDir               string   `yaml:"cache_dir"`
	DebugLogging           bool     `yaml:"debug_logging"`
}

// AccessReviewConfig mirrors spec §6's access-review config surface.
type AccessReviewConfig struct {
	Enabled         bool                  `yaml:"enabled"`
	UserReview      UserReviewConfig      `yaml:"user_review"`
	PrivilegedReview PrivilegedReviewConfig `yaml:"privileged_review"`
	TokenReview     TokenReviewConfig     `yaml:"token_review"`
	ResourceReview  ResourceReviewConfig  `yaml:"resource_review"`
	Notifications   NotificationConfig    `yaml:"notifications"`
}

type UserReviewConfig struct {
	Enabled                bool   `yaml:"enabled"`
	Frequency              string `yaml:"frequency"`
	InactiveThresholdDays  uint64 `yaml:"inactive_threshold_days"`
	AutoRevokeInactive     bool   `yaml:"auto_revoke_inactive"`
	RequireManagerApproval bool   `yaml:"require_manager_approval"`
	ApprovalTimeoutDays    uint64 `yaml:"approval_timeout_days"`
}

type PrivilegedReviewConfig struct {
	Enabled             bool   `yaml:"enabled"`
	Frequency           string `yaml:"frequency"`
	RequireMFA          bool   `yaml:"require_mfa"`
	RequireJustification bool  `yaml:"require_justification"`
	AlertOnEscalation   bool   `yaml:"alert_on_escalation"`
}

type TokenReviewConfig struct {
	Enabled               bool   `yaml:"enabled"`
	Frequency             string `yaml:"frequency"`
	UnusedThresholdDays   uint64 `yaml:"unused_threshold_days"`
	AutoRevokeUnused      bool   `yaml:"auto_revoke_unused"`
	RotationThresholdDays uint64 `yaml:"rotation_threshold_days"`
}

type ResourceReviewConfig struct {
	Enabled             bool     `yaml:"enabled"`
	Frequency           string   `yaml:"frequency"`
	SensitiveResources  []string `yaml:"sensitive_resources"`
}

type NotificationConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Channels   []string `yaml:"channels"`
	Recipients []string `yaml:"recipients"`
}

// EncryptionConfig mirrors spec §6's auto-encryption config surface (§12.1).
type EncryptionConfig struct {
	Enabled                    bool            `yaml:"enabled"`
	KeyID                      string          `yaml:"key_id"`
	FieldPatterns              []FieldPattern  `yaml:"field_patterns"`
	HeaderPatterns             []string        `yaml:"header_patterns"`
	EncryptEnvironmentVariables bool           `yaml:"encrypt_environment_variables"`
	EncryptRequestBodies       bool            `yaml:"encrypt_request_bodies"`
	EncryptResponseBodies      bool            `yaml:"encrypt_response_bodies"`
	Rules                      []RuleConfig    `yaml:"rules"`
}

type FieldPattern struct {
	Pattern       string `yaml:"pattern"`
	CaseSensitive bool   `yaml:"case_sensitive"`
	Algorithm     string `yaml:"algorithm"`
}

type RuleConfig struct {
	Conditions []ConditionConfig `yaml:"conditions"`
	Actions    []ActionConfig    `yaml:"actions"`
}

type ConditionConfig struct {
	Kind  string `yaml:"kind"`
	Value string `yaml:"value"`
}

type ActionConfig struct {
	Kind      string `yaml:"kind"`
	Value     string `yaml:"value"`
	Algorithm string `yaml:"algorithm"`
}

// DefaultConfig returns the default configuration, mirroring the
// defaults observed in the original implementation component-by-component.
func DefaultConfig() *Config {
	return &Config{
		Name:    "mockforge",
		Version: "0.1.0",

		Logging: LoggingConfig{DebugMode: false, Level: "info"},

		Workspace: WorkspaceConfig{
			MaxWorkspaces:          100,
			DefaultWorkspaceName:   "Default Workspace",
			AutoSaveIntervalSecond: 300,
		},

		Persona: PersonaConfig{DefaultTraits: map[string]string{}},

		DataGen: DataGenConfig{
			RealisticMode:         true,
			DefaultArraySize:      3,
			MaxArraySize:          50,
			IncludeOptionalFields: true,
			ValidateGeneratedData: true,
			EnableBackstories:     false,
		},

		RAG: RAGConfig{
			Provider:              "ollama",
			EmbeddingProvider:     "openaicompatible",
			MaxTokens:             1024,
			Temperature:           0.7,
			ContextWindow:         4096,
			SimilarityThreshold:   0.5,
			MaxChunks:             5,
			RequestTimeoutSeconds: 30,
			MaxRetries:            3,
		},

		VDB: VDBConfig{Backend: VDBBackendMemory},

		WS: WSConfig{RoomBufferSize: 1024},

		Chaos: ChaosConfig{
			MinConfidence:       0.5,
			MaxRecommendations:  20,
			EnableLearning:      true,
			AnalysisWindowHours: 24,
		},

		Plugin: PluginConfig{
			MaxMemoryPerPlugin:      10 * 1024 * 1024,
			MaxCPUPerPlugin:         0.5,
			MaxExecutionTimeMs:      5000,
			AllowNetworkAccess:      false,
			MaxConcurrentExecutions: 10,
		},

		AccessReview: AccessReviewConfig{
			Enabled: false,
			UserReview: UserReviewConfig{
				Enabled: true, Frequency: "quarterly", InactiveThresholdDays: 90,
				AutoRevokeInactive: true, RequireManagerApproval: true, ApprovalTimeoutDays: 30,
			},
			PrivilegedReview: PrivilegedReviewConfig{
				Enabled: true, Frequency: "monthly", RequireMFA: true,
				RequireJustification: true, AlertOnEscalation: true,
			},
			TokenReview: TokenReviewConfig{
				Enabled: true, Frequency: "monthly", UnusedThresholdDays: 90,
				AutoRevokeUnused: true, RotationThresholdDays: 30,
			},
			ResourceReview: ResourceReviewConfig{
				Enabled: true, Frequency: "quarterly",
				SensitiveResources: []string{"billing", "user_data", "audit_logs", "security_settings"},
			},
			Notifications: NotificationConfig{
				Enabled: true, Channels: []string{"email"},
				Recipients: []string{"security_team", "compliance_team"},
			},
		},

		Encryption: EncryptionConfig{Enabled: false},
	}
}

// Load reads and parses a YAML config file, falling back to defaults for
// anything the file does not specify.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
