package openapi

import "maps"

// NewComponents creates Components with shared schemas and error responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"ErrorResponse": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
				Required: []string{"error"},
			},
		},
		Responses: map[string]*Response{
			"BadRequest": {
				Description: "Invalid request",
				Content: map[string]*MediaType{
					"application/json": {Schema: SchemaRef("ErrorResponse")},
				},
			},
			"UnprocessableEntity": {
				Description: "Document could not be processed",
				Content: map[string]*MediaType{
					"application/json": {Schema: SchemaRef("ErrorResponse")},
				},
			},
			"BadGateway": {
				Description: "Inference provider error",
				Content: map[string]*MediaType{
					"application/json": {Schema: SchemaRef("ErrorResponse")},
				},
			},
			"GatewayTimeout": {
				Description: "Inference provider timed out",
				Content: map[string]*MediaType{
					"application/json": {Schema: SchemaRef("ErrorResponse")},
				},
			},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
