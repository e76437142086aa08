package environment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/workspace"
)

func TestSubstituteKnownAndUnknownVariables(t *testing.T) {
	vars := map[string]string{"NAME": "Ada", "HOST-1": "example.com"}

	result := Substitute("Hello {{NAME}} at {{HOST-1}}, missing {{MISSING}}", vars)
	require.False(t, result.Success)
	require.Equal(t, "Hello Ada at example.com, missing {{MISSING}}", result.Value)
	require.Len(t, result.Errors, 1)
}

func TestSubstituteMalformedPlaceholderIsLiteral(t *testing.T) {
	result := Substitute("a {{ bad!name }} b", nil)
	require.True(t, result.Success)
	require.Contains(t, result.Value, "{{")
}

func TestSubstituteEmptyNameIsLiteral(t *testing.T) {
	result := Substitute("{{}}", map[string]string{"": "x"})
	require.Equal(t, "{{}}", result.Value)
	require.True(t, result.Success)
}

func TestSubstituteWithActiveNilEnvironmentFailsAllLookups(t *testing.T) {
	result := SubstituteWithActive("{{X}}", nil)
	require.False(t, result.Success)
}

func TestValidateEmptyNameAndEmptyValue(t *testing.T) {
	env := workspace.NewEnvironment("")
	env.Variables["key"] = ""

	v := Validate(env)
	require.False(t, v.IsValid)
	require.Contains(t, v.Errors, "environment name cannot be empty")
	require.Len(t, v.Warnings, 1)
}

func TestValidateGoodEnvironment(t *testing.T) {
	env := workspace.NewEnvironment("Dev")
	env.Variables["KEY"] = "value"

	v := Validate(env)
	require.True(t, v.IsValid)
	require.Empty(t, v.Warnings)
}

func TestExportDotEnv(t *testing.T) {
	env := workspace.NewEnvironment("Dev")
	env.Variables["B"] = "2"
	env.Variables["A"] = "1"

	out, err := Export(env, FormatDotEnv, "")
	require.NoError(t, err)
	require.Equal(t, "A=1\nB=2\n", out)
}

func TestExportCustomTemplate(t *testing.T) {
	env := workspace.NewEnvironment("Dev")
	env.Variables["HOST"] = "example.com"

	out, err := Export(env, FormatCustom, "url={{HOST}}/api")
	require.NoError(t, err)
	require.Equal(t, "url=example.com/api", out)
}

func TestExportJSONAndYAML(t *testing.T) {
	env := workspace.NewEnvironment("Dev")
	env.Variables["K"] = "v"

	js, err := Export(env, FormatJSON, "")
	require.NoError(t, err)
	require.Contains(t, js, "Dev")

	yml, err := Export(env, FormatYAML, "")
	require.NoError(t, err)
	require.Contains(t, yml, "Dev")
}

func TestImportRoundTripsAndValidates(t *testing.T) {
	env := workspace.NewEnvironment("Dev")
	env.Variables["K"] = "v"
	data, err := Export(env, FormatJSON, "")
	require.NoError(t, err)

	imported, err := Import(data)
	require.NoError(t, err)
	require.Equal(t, "Dev", imported.Name)
}

func TestImportRejectsInvalidEnvironment(t *testing.T) {
	_, err := Import(`{"name": "", "variables": {}}`)
	require.Error(t, err)
}

func TestCloneProducesFreshIDAndInactive(t *testing.T) {
	src := workspace.NewEnvironment("Source")
	src.Variables["K"] = "v"
	src.Active = true

	clone := Clone(src, "Cloned")
	require.NotEqual(t, src.ID, clone.ID)
	require.Equal(t, "Cloned", clone.Name)
	require.False(t, clone.Active)
	require.Equal(t, "v", clone.Variables["K"])
}

func TestMergeCombinesVariablesLastWins(t *testing.T) {
	a := workspace.NewEnvironment("A")
	a.Variables["K"] = "a"
	b := workspace.NewEnvironment("B")
	b.Variables["K"] = "b"
	b.Variables["K2"] = "b2"

	merged := Merge([]*workspace.Environment{a, b}, "Merged")
	require.Equal(t, "b", merged.Variables["K"])
	require.Equal(t, "b2", merged.Variables["K2"])
}

func TestStatsAndFindByName(t *testing.T) {
	a := workspace.NewEnvironment("Dev")
	a.Active = true
	a.Variables["K"] = "v"
	b := workspace.NewEnvironment("Production")

	envs := []*workspace.Environment{a, b}
	stats := Stats(envs)
	require.Equal(t, 2, stats.TotalEnvironments)
	require.Equal(t, 1, stats.TotalVariables)
	require.Equal(t, 1, stats.ActiveEnvironments)

	require.Len(t, FindByName(envs, "prod"), 1)
}
