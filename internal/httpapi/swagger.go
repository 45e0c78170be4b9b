package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// swaggerEnabled gates the /swagger routes.
var swaggerEnabled = true

// SetSwaggerEnabled toggles the /swagger routes for routers built afterwards.
func SetSwaggerEnabled(on bool) { swaggerEnabled = on }

// MountSwagger serves the swagger UI and the registered swag document under
// /swagger/. The document is registered by importing jobstream/docs.
func MountSwagger(r chi.Router) {
	if !swaggerEnabled {
		return
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
