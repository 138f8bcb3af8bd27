package stream

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/invopop/jsonschema"

	"github.com/lixenwraith/bounce/engine"
)

// SnapshotSchema returns the JSON schema of the frames viewers receive
func SnapshotSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(engine.Snapshot))
	schema.Title = "Bounce world snapshot"
	schema.Description = "One websocket text frame: bodies in ID order and the arena walls with display points"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}

// NewMux routes viewers to the hub and publishes the frame schema at /schema.json
func NewMux(h *Hub) (*http.ServeMux, error) {
	schema, err := SnapshotSchema()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/", h)
	mux.HandleFunc("/schema.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/schema+json")
		w.Write(schema)
	})
	return mux, nil
}
