// Package spec embeds the OpenAPI document served alongside the API.
package spec

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
