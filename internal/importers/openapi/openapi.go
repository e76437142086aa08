// Package openapi imports OpenAPI 3.0.x and 3.1.0 documents (JSON or
// YAML) into importers.ImportedRoute values, one per (method, path)
// operation, with example request/response bodies synthesized from
// each operation's schema.
package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/pb33f/libopenapi"
	base "github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/datagen"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/importers"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// Result aggregates every route extracted from one document, plus any
// non-fatal per-operation warnings encountered along the way.
type Result struct {
	Routes   []importers.ImportedRoute
	Warnings []string
}

// Import parses spec (JSON or YAML, libopenapi accepts either) and
// extracts one ImportedRoute per GET/POST/PUT/PATCH/DELETE operation.
func Import(spec []byte) (*Result, error) {
	doc, err := libopenapi.NewDocument(spec)
	if err != nil {
		return nil, errs.New("importers/openapi", errs.KindValidation, "parse document: "+err.Error())
	}
	model, buildErrs := doc.BuildV3Model()
	if buildErrs != nil {
		return nil, errs.New("importers/openapi", errs.KindValidation, "build v3 model: "+buildErrs.Error())
	}

	result := &Result{}
	gen := datagen.NewGenerator(datagen.DefaultConfig())

	if model.Model.Paths == nil {
		return result, nil
	}

	for pair := model.Model.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		item := pair.Value()
		for method, op := range operationsOf(item) {
			if op == nil {
				continue
			}
			route := importers.ImportedRoute{
				Protocol:    importers.ProtocolHTTP,
				Method:      method,
				Path:        path,
				Description: op.Description,
				Tags:        op.Tags,
				Headers:     map[string]string{},
			}

			if body := requestBodySchema(op); body != nil {
				data, genErr := gen.GenerateSchema(schemaProxyToDefinition(path+"_request", body))
				if genErr != nil {
					warn(result, fmt.Sprintf("%s %s request body: %v", method, path, genErr))
				} else {
					route.RequestBody = toJSON(data)
				}
			}

			route.Responses = responsesOf(op, gen, result, method, path)
			result.Routes = append(result.Routes, route)
		}
	}

	return result, nil
}

func warn(result *Result, message string) {
	result.Warnings = append(result.Warnings, message)
	logging.Get(logging.CategoryImport).Warn(message)
}

func operationsOf(item *v3.PathItem) map[string]*v3.Operation {
	return map[string]*v3.Operation{
		"GET":    item.Get,
		"POST":   item.Post,
		"PUT":    item.Put,
		"DELETE": item.Delete,
		"PATCH":  item.Patch,
	}
}

func requestBodySchema(op *v3.Operation) *base.SchemaProxy {
	if op.RequestBody == nil || op.RequestBody.Content == nil {
		return nil
	}
	media, ok := op.RequestBody.Content.Get("application/json")
	if !ok || media == nil {
		return nil
	}
	return media.Schema
}

// responsesOf produces one ImportedResponse per declared status code,
// not just the "best" one, since an import should preserve every
// documented response shape for the caller to choose between.
func responsesOf(op *v3.Operation, gen *datagen.Generator, result *Result, method, path string) []importers.ImportedResponse {
	if op.Responses == nil {
		return nil
	}

	var out []importers.ImportedResponse
	for pair := op.Responses.Codes.First(); pair != nil; pair = pair.Next() {
		code := pair.Key()
		resp := pair.Value()
		if resp == nil {
			continue
		}

		status := 0
		fmt.Sscanf(code, "%d", &status)

		entry := importers.ImportedResponse{
			StatusCode: status,
			StatusText: resp.Description,
			Headers:    map[string]string{"Content-Type": "application/json"},
		}

		if schema, ok := responseJSONSchema(resp); ok {
			data, genErr := gen.GenerateSchema(schemaProxyToDefinition(fmt.Sprintf("%s_%s_%s", method, path, code), schema))
			if genErr != nil {
				warn(result, fmt.Sprintf("%s %s response %s: %v", method, path, code, genErr))
			} else {
				entry.Body = toJSON(data)
			}
		}

		out = append(out, entry)
	}
	return out
}

func responseJSONSchema(resp *v3.Response) (*base.SchemaProxy, bool) {
	if resp.Content == nil {
		return nil, false
	}
	media, ok := resp.Content.Get("application/json")
	if !ok || media == nil || media.Schema == nil {
		return nil, false
	}
	return media.Schema, true
}

func toJSON(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// schemaProxyToDefinition flattens an OpenAPI schema's top-level
// properties into a datagen.SchemaDefinition.
func schemaProxyToDefinition(name string, proxy *base.SchemaProxy) *datagen.SchemaDefinition {
	def := &datagen.SchemaDefinition{Name: name}
	if proxy == nil {
		return def
	}
	schema := proxy.Schema()
	if schema == nil {
		return def
	}
	def.Description = schema.Description

	required := make(map[string]bool)
	for _, r := range schema.Required {
		required[r] = true
	}
	if schema.Properties == nil {
		return def
	}

	for pair := schema.Properties.First(); pair != nil; pair = pair.Next() {
		fieldName := pair.Key()
		propSchema := pair.Value().Schema()
		field := datagen.FieldDefinition{
			Name:        fieldName,
			Required:    required[fieldName],
			FieldType:   "string",
			Constraints: make(map[string]interface{}),
		}
		if propSchema != nil {
			if len(propSchema.Type) > 0 {
				field.FieldType = propSchema.Type[0]
			}
			if propSchema.Minimum != nil {
				field.Constraints["minimum"] = *propSchema.Minimum
			}
			if propSchema.Maximum != nil {
				field.Constraints["maximum"] = *propSchema.Maximum
			}
			if propSchema.MinLength != nil {
				field.Constraints["minLength"] = *propSchema.MinLength
			}
			if propSchema.MaxLength != nil {
				field.Constraints["maxLength"] = *propSchema.MaxLength
			}
			if len(propSchema.Enum) > 0 {
				var enumVals []interface{}
				for _, node := range propSchema.Enum {
					var decoded interface{}
					if node != nil && node.Decode(&decoded) == nil {
						enumVals = append(enumVals, decoded)
					}
				}
				if len(enumVals) > 0 {
					field.Constraints["enum"] = enumVals
				}
			}
		}
		def.Fields = append(def.Fields, field)
	}
	return def
}
