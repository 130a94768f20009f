package endpoints

import (
	"github.com/tomehq/tome/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},

		// Book endpoints
		&GenerateEndpoint{},
		&DocumentEndpoint{},
		&StatusEndpoint{},
	}
}

// BookCommands returns endpoints for book operations.
// This groups book-related commands under the "books" subcommand.
func BookCommands() []api.Endpoint {
	return []api.Endpoint{
		&GenerateEndpoint{},
		&DocumentEndpoint{},
		&StatusEndpoint{},
	}
}
