package models

// FunctionDeclaration describes one callable tool to the language model.
// It is sent verbatim with every request that allows tool use.
type FunctionDeclaration struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

// Parameters defines the JSON Schema for function parameters
type Parameters struct {
	Type                 string                 `json:"type"`
	Properties           map[string]interface{} `json:"properties"`
	Required             []string               `json:"required"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

// Schema renders the parameters as a plain JSON-schema object. Nil
// properties and required lists are emitted as empty values, since strict
// providers reject null there.
func (p Parameters) Schema() map[string]interface{} {
	properties := p.Properties
	if properties == nil {
		properties = map[string]interface{}{}
	}
	required := p.Required
	if required == nil {
		required = []string{}
	}
	typ := p.Type
	if typ == "" {
		typ = "object"
	}

	schema := map[string]interface{}{
		"type":       typ,
		"properties": properties,
		"required":   required,
	}
	if p.AdditionalProperties != nil {
		schema["additionalProperties"] = *p.AdditionalProperties
	}
	return schema
}
