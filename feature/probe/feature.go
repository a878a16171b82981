package probe

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the probe feature around service.
func NewFeature(service *Service, defaults RunOptions) *Feature {
	return &Feature{service: service, handler: NewHandler(service, defaults)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "probe"
}

// IsEnabled reports whether a backend client was configured.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
