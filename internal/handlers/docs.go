package handlers

import (
	"encoding/json"
	"net/http"

	"gopkg.in/yaml.v3"
)

// APIDocs serves the OpenAPI document as written.
func (h *Handlers) APIDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	if _, err := w.Write(h.openAPI); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to write api docs", "error", err)
	}
}

// APIDocsJSON serves the OpenAPI document converted to JSON.
func (h *Handlers) APIDocsJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := w.Write(h.openAPIJSON); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to write api docs", "error", err)
	}
}

// yamlToJSON requires string mapping keys; quote numeric keys such as response codes.
func yamlToJSON(document []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(document, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
