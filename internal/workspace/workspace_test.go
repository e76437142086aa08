package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddWorkspaceRebuildsRoutes(t *testing.T) {
	r := NewRegistry()
	ws := NewWorkspace("Test")
	req := NewMockRequest("Ping", MethodGET, "/ping")
	req.AddResponse(NewMockResponse(200, "OK", "{}"))
	ws.AddRequest(req)

	id, err := r.AddWorkspace(ws)
	require.NoError(t, err)
	require.Equal(t, ws.ID, id)
	require.Equal(t, 1, r.RouteRegistry().Count())

	resp, ok := r.RouteRegistry().Match(MethodGET, "/ping")
	require.True(t, ok)
	require.Equal(t, 200, resp.StatusCode)
}

func TestDisabledOrResponselessRequestsAreNotRouted(t *testing.T) {
	r := NewRegistry()
	ws := NewWorkspace("Test")

	disabled := NewMockRequest("Disabled", MethodGET, "/disabled")
	disabled.AddResponse(NewMockResponse(200, "OK", "{}"))
	disabled.Enabled = false
	ws.AddRequest(disabled)

	inert := NewMockRequest("Inert", MethodGET, "/inert")
	ws.AddRequest(inert)

	_, err := r.AddWorkspace(ws)
	require.NoError(t, err)
	require.Equal(t, 0, r.RouteRegistry().Count())

	_, ok := r.RouteRegistry().Match(MethodGET, "/disabled")
	require.False(t, ok)
}

func TestFolderRequestsAreRoutedRecursively(t *testing.T) {
	r := NewRegistry()
	ws := NewWorkspace("Test")
	parent := NewFolder("Parent")
	child := NewFolder("Child")
	req := NewMockRequest("Nested", MethodPOST, "/nested")
	req.AddResponse(NewMockResponse(201, "Created", "{}"))
	child.AddRequest(req)
	parent.AddFolder(child)
	ws.AddFolder(parent)

	_, err := r.AddWorkspace(ws)
	require.NoError(t, err)

	resp, ok := r.RouteRegistry().Match(MethodPOST, "/nested")
	require.True(t, ok)
	require.Equal(t, 201, resp.StatusCode)
}

func TestRemoveWorkspaceRepointsActive(t *testing.T) {
	r := NewRegistry()
	id1, _ := r.AddWorkspace(NewWorkspace("One"))
	id2, _ := r.AddWorkspace(NewWorkspace("Two"))
	require.NoError(t, r.SetActiveWorkspace(id1))

	_, err := r.RemoveWorkspace(id1)
	require.NoError(t, err)
	require.Equal(t, id2, r.ActiveWorkspace().ID)
}

func TestRemoveWorkspaceNotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.RemoveWorkspace("nope")
	require.Error(t, err)
}

func TestFindRequestAndFolder(t *testing.T) {
	r := NewRegistry()
	ws := NewWorkspace("Test")
	folder := NewFolder("Folder")
	req := NewMockRequest("Req", MethodGET, "/x")
	folder.AddRequest(req)
	ws.AddFolder(folder)
	r.AddWorkspace(ws)

	require.NotNil(t, r.FindRequest(req.ID))
	require.NotNil(t, r.FindFolder(folder.ID))
	require.Nil(t, r.FindRequest("missing"))
}

func TestSearchRequestsAndByTag(t *testing.T) {
	r := NewRegistry()
	ws := NewWorkspace("Test")
	req := NewMockRequest("Searchable Request", MethodGET, "/api/users")
	req.Tags = []string{"api"}
	ws.AddRequest(req)
	r.AddWorkspace(ws)

	require.Len(t, r.SearchRequests("searchable"), 1)
	require.Len(t, r.SearchRequests("users"), 1)
	require.Len(t, r.RequestsByTag("api"), 1)
	require.Len(t, r.RequestsByTag("missing"), 0)
}

func TestExportImportWorkspaceRoundTrips(t *testing.T) {
	r := NewRegistry()
	ws := NewWorkspace("Exported")
	id, _ := r.AddWorkspace(ws)

	data, err := r.ExportWorkspace(id)
	require.NoError(t, err)
	require.Contains(t, data, "Exported")

	r2 := NewRegistry()
	newID, err := r2.ImportWorkspace(data)
	require.NoError(t, err)
	require.NotEmpty(t, newID)
	require.NotNil(t, r2.GetWorkspace(newID))
}

func TestImportWorkspaceInvalidJSON(t *testing.T) {
	r := NewRegistry()
	_, err := r.ImportWorkspace("not json")
	require.Error(t, err)
}

func TestSetActiveEnvironmentDeactivatesOthers(t *testing.T) {
	r := NewRegistry()
	env1 := NewEnvironment("Dev")
	env2 := NewEnvironment("Prod")
	r.AddEnvironment(env1)
	r.AddEnvironment(env2)

	require.NoError(t, r.SetActiveEnvironment(env2.ID))
	require.False(t, r.GetEnvironment(env1.ID).Active)
	require.True(t, r.GetEnvironment(env2.ID).Active)
	require.Equal(t, env2.ID, r.ActiveEnvironment().ID)
}

func TestMaxWorkspacesEnforced(t *testing.T) {
	r := NewRegistryWithConfig(RegistryConfig{MaxWorkspaces: 1, DefaultWorkspaceName: "Default"})
	require.Equal(t, 1, len(r.AllWorkspaces()))

	_, err := r.AddWorkspace(NewWorkspace("Overflow"))
	require.Error(t, err)
}

func TestStatsAggregatesAcrossWorkspace(t *testing.T) {
	r := NewRegistry()
	ws := NewWorkspace("Test")
	folder := NewFolder("Folder")
	req := NewMockRequest("Req", MethodGET, "/x")
	req.AddResponse(NewMockResponse(200, "OK", "{}"))
	ws.AddFolder(folder)
	ws.AddRequest(req)
	r.AddWorkspace(ws)
	r.AddEnvironment(NewEnvironment("Dev"))

	stats := r.Stats()
	require.Equal(t, 1, stats.TotalWorkspaces)
	require.Equal(t, 1, stats.TotalFolders)
	require.Equal(t, 1, stats.TotalRequests)
	require.Equal(t, 1, stats.TotalResponses)
	require.Equal(t, 1, stats.TotalEnvironments)
}
