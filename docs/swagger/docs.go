package swagger

import (
	"github.com/swaggo/swag"
)

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Catalog, orders, leads and WhatsApp welcome API for the storefront.",
	InfoInstanceName: "swagger",
	SwaggerTemplate: `
	
	`,
	LeftDelim:  "{{",
	RightDelim: "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
