// Command schema-generator writes the JSON Schemas of tweakpine's file formats:
// the tool config, its logging section and the persisted preset record.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/eminiarts/tweakpine/config"
	"github.com/eminiarts/tweakpine/logging"
	"github.com/eminiarts/tweakpine/state"
)

func loggingSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}
	schema := r.Reflect(&logging.Config{})
	schema.Title = "TweakPine Logging Configuration"
	schema.Description = "Schema for the 'logging' section of tweakpine.yml."
	schema.Required = nil
	return json.MarshalIndent(schema, "", "  ")
}

func main() {
	outDir := flag.String("out", ".", "directory to write the schema files to")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Error creating output directory: %v", err)
	}

	generators := []struct {
		file     string
		generate func() ([]byte, error)
	}{
		{"tweakpine.config.schema.json", config.GenerateSchema},
		{"logging.schema.json", loggingSchema},
		{"preset-record.schema.json", state.GenerateRecordSchema},
	}
	for _, g := range generators {
		data, err := g.generate()
		if err != nil {
			log.Fatalf("Error generating %s: %v", g.file, err)
		}
		path := filepath.Join(*outDir, g.file)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Fatalf("Error writing %s: %v", path, err)
		}
		log.Printf("Generated %s", path)
	}
}
