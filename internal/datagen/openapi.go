package datagen

import (
	"fmt"
	"strings"

	"github.com/pb33f/libopenapi"
	base "github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// MockResponse is a synthesized response body for one API operation.
type MockResponse struct {
	Status int
	Body   map[string]interface{}
}

// OpenAPIResult aggregates everything generated from a single
// specification document.
type OpenAPIResult struct {
	Schemas   map[string]map[string]interface{}
	Responses map[string]MockResponse
	Warnings  []string
}

// GenerateFromOpenAPI parses an OpenAPI 3.x document, extracts
// components.schemas plus one response schema per operation (see
// bestResponseSchema), and generates mock data for all of them.
// Request body schemas are not extracted or generated. Per-schema
// failures are collected as warnings rather than aborting the whole call.
func (g *Generator) GenerateFromOpenAPI(spec []byte) (*OpenAPIResult, error) {
	doc, err := libopenapi.NewDocument(spec)
	if err != nil {
		return nil, fmt.Errorf("datagen: parse openapi document: %w", err)
	}
	model, errs := doc.BuildV3Model()
	if errs != nil {
		return nil, fmt.Errorf("datagen: build openapi v3 model: %w", errs)
	}

	result := &OpenAPIResult{
		Schemas:   make(map[string]map[string]interface{}),
		Responses: make(map[string]MockResponse),
	}

	if model.Model.Components != nil {
		for pair := model.Model.Components.Schemas.First(); pair != nil; pair = pair.Next() {
			name := pair.Key()
			schema := schemaProxyToDefinition(name, pair.Value())
			data, genErr := g.GenerateSchema(schema)
			if genErr != nil {
				warning := fmt.Sprintf("schema %q: %v", name, genErr)
				result.Warnings = append(result.Warnings, warning)
				logging.Get(logging.CategoryDataGen).Warn(warning)
				continue
			}
			result.Schemas[name] = data
		}
	}

	if model.Model.Paths != nil {
		for pair := model.Model.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
			path := pair.Key()
			item := pair.Value()
			for method, op := range operationsOf(item) {
				if op == nil {
					continue
				}
				key := fmt.Sprintf("%s %s", strings.ToUpper(method), path)
				resp, status, ok := bestResponseSchema(op)
				if !ok {
					continue
				}
				schema := schemaProxyToDefinition(key+"_response", resp)
				body, genErr := g.GenerateSchema(schema)
				if genErr != nil {
					warning := fmt.Sprintf("operation %q: %v", key, genErr)
					result.Warnings = append(result.Warnings, warning)
					continue
				}
				result.Responses[key] = MockResponse{Status: status, Body: body}
			}
		}
	}

	return result, nil
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

// bestResponseSchema prefers 200, then 201, then the first other 2xx.
func bestResponseSchema(op *v3.Operation) (*base.SchemaProxy, int, bool) {
	if op.Responses == nil {
		return nil, 0, false
	}
	if schema, ok := responseJSONSchema(op.Responses, "200"); ok {
		return schema, 200, true
	}
	if schema, ok := responseJSONSchema(op.Responses, "201"); ok {
		return schema, 201, true
	}
	for pair := op.Responses.Codes.First(); pair != nil; pair = pair.Next() {
		code := pair.Key()
		if len(code) == 3 && code[0] == '2' {
			if schema, ok := responseJSONSchema(op.Responses, code); ok {
				var status int
				fmt.Sscanf(code, "%d", &status)
				return schema, status, true
			}
		}
	}
	return nil, 0, false
}

func responseJSONSchema(responses *v3.Responses, code string) (*base.SchemaProxy, bool) {
	resp, ok := responses.Codes.Get(code)
	if !ok || resp == nil || resp.Content == nil {
		return nil, false
	}
	media, ok := resp.Content.Get("application/json")
	if !ok || media == nil || media.Schema == nil {
		return nil, false
	}
	return media.Schema, true
}

// schemaProxyToDefinition flattens an OpenAPI schema's top-level
// properties into a SchemaDefinition, carrying over type and the
// constraint keywords the generator understands.
func schemaProxyToDefinition(name string, proxy *base.SchemaProxy) *SchemaDefinition {
	def := &SchemaDefinition{Name: name}
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
		field := FieldDefinition{
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
				enumVals := make([]interface{}, 0, len(propSchema.Enum))
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
