package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/importers"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/importers/asyncapi"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/importers/har"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/importers/openapi"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/importers/postman"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/workspace"
)

var (
	importOutput  string
	importBaseURL string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "import an API description into a workspace",
}

var importOpenAPICmd = &cobra.Command{
	Use:   "openapi <spec-file>",
	Short: "import an OpenAPI 3.0.x/3.1.0 document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		result, err := openapi.Import(data)
		if err != nil {
			return err
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
		}
		return writeImportedRoutes(result.Routes)
	},
}

var importAsyncAPICmd = &cobra.Command{
	Use:   "asyncapi <spec-file>",
	Short: "import an AsyncAPI 2.x/3.x document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		result, err := asyncapi.Import(data)
		if err != nil {
			return err
		}
		return writeImportedRoutes(result.Routes)
	},
}

var importHARCmd = &cobra.Command{
	Use:   "har <archive-file>",
	Short: "import a HAR 1.2 log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		routes, err := har.Import(data, importBaseURL)
		if err != nil {
			return err
		}
		return writeImportedRoutes(routes)
	},
}

var importPostmanCmd = &cobra.Command{
	Use:   "postman <collection-file>",
	Short: "import a Postman v2.1 collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		routes, err := postman.Import(data)
		if err != nil {
			return err
		}
		return writeImportedRoutes(routes)
	},
}

func init() {
	importHARCmd.Flags().StringVar(&importBaseURL, "base-url", "", "rewrite captured URLs relative to this base when scheme and host match")
	importCmd.PersistentFlags().StringVarP(&importOutput, "output", "o", "", "write the resulting workspace as JSON to this path instead of stdout")

	importCmd.AddCommand(importOpenAPICmd, importAsyncAPICmd, importHARCmd, importPostmanCmd)
}

// writeImportedRoutes converts routes into a new Workspace and renders
// it as JSON, either to importOutput or stdout.
func writeImportedRoutes(routes []importers.ImportedRoute) error {
	ws := workspace.NewWorkspace("Imported Workspace")
	for _, req := range workspace.RequestsFromImport(routes) {
		ws.AddRequest(req)
	}

	registry := workspace.NewRegistry()
	id, err := registry.AddWorkspace(ws)
	if err != nil {
		return fmt.Errorf("add workspace: %w", err)
	}

	exported, err := registry.ExportWorkspace(id)
	if err != nil {
		return fmt.Errorf("export workspace: %w", err)
	}

	if importOutput == "" {
		fmt.Println(exported)
		return nil
	}
	if err := os.WriteFile(importOutput, []byte(exported), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", importOutput, err)
	}
	fmt.Printf("imported %d routes into %s\n", len(routes), importOutput)
	return nil
}
