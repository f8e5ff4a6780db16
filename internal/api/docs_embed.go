//go:build embed_openapi

package api

import "chainopt/openapi"

func openAPILoad() ([]byte, error) { return openapi.Spec, nil }
