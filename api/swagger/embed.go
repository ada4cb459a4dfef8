// Package swagger embeds the OpenAPI document served next to the Swagger UI.
package swagger

import _ "embed"

// Spec is the OpenAPI 2.0 document for the products API.
//
//go:embed products.swagger.json
var Spec []byte
