package api

import _ "embed"

// OpenAPI is the API description served at /api-docs.
//
//go:embed openapi.yaml
var OpenAPI []byte
