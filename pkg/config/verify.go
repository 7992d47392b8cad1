package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

type schemaDoc struct {
	Ref  string               `json:"$ref"`
	Defs map[string]schemaDef `json:"$defs"`
}

type schemaDef struct {
	Ref        string               `json:"$ref"`
	Type       string               `json:"type"`
	Properties map[string]schemaDef `json:"properties"`
	Items      *schemaDef           `json:"items"`
	Required   []string             `json:"required"`
}

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema.
// It catches a stale schema.json (fields unknown to the schema) and missing required fields.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var doc schemaDoc
	if err := json.Unmarshal([]byte(embeddedSchema), &doc); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	root, err := doc.resolve(schemaDef{Ref: doc.Ref})
	if err != nil {
		return err
	}
	if err := doc.check(root, configMap, ""); err != nil {
		return fmt.Errorf("schema mismatch: %w", err)
	}

	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// resolve follows a local "#/$defs/Name" reference
func (d schemaDoc) resolve(def schemaDef) (schemaDef, error) {
	if def.Ref == "" {
		return def, nil
	}
	name := strings.TrimPrefix(def.Ref, "#/$defs/")
	res, ok := d.Defs[name]
	if !ok {
		return schemaDef{}, fmt.Errorf("unknown schema reference %q", def.Ref)
	}
	return res, nil
}

func (d schemaDoc) check(def schemaDef, value map[string]any, path string) error {
	keys := make([]string, 0, len(value))
	for k := range value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		prop, ok := def.Properties[k]
		if !ok {
			return fmt.Errorf("%s%s: not in schema", path, k)
		}
		if prop.Items != nil {
			prop = *prop.Items
		}
		propDef, err := d.resolve(prop)
		if err != nil {
			return err
		}
		if propDef.Properties == nil {
			continue // scalar
		}
		switch v := value[k].(type) {
		case map[string]any:
			if err := d.check(propDef, v, path+k+"."); err != nil {
				return err
			}
		case []any:
			for i, el := range v {
				if m, ok := el.(map[string]any); ok {
					if err := d.check(propDef, m, fmt.Sprintf("%s%s[%d].", path, k, i)); err != nil {
						return err
					}
				}
			}
		}
	}

	for _, r := range def.Required {
		if _, ok := value[r]; !ok {
			return fmt.Errorf("%s%s: required", path, r)
		}
	}
	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	for i, f := range cfg.Feeds {
		if f.URL == "" {
			return fmt.Errorf("feeds[%d].url is required", i)
		}
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
