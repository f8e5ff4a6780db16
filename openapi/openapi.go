// Package openapi carries the API document for embedded builds.
package openapi

import _ "embed"

//go:embed openapi.yaml
var Spec []byte
