// Package docs registra el documento OpenAPI de la API en swag.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger_template.json
var docTemplate string

// SwaggerInfo metadatos del documento; main ajusta Host y Version.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Andromeda CRM API",
	Description:      "Leads, clientes, contactos, notas y usuarios con integración a la mesa de ayuda.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// JSON documento ya renderizado, listo para servir.
func JSON() []byte {
	return []byte(SwaggerInfo.ReadDoc())
}
