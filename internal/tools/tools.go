// Package tools implements the built-in assistant tool set: asynchronous
// task tools that report back over the notification bus, and terminal
// plan-generation tools that decode their arguments into a stored plan.
package tools

import (
	"github.com/LEOK66/Modo-sub000/internal/assistant"
	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/LEOK66/Modo-sub000/internal/tasks"
)

// RegisterAll installs every built-in tool into the registry. Called once at
// startup.
func RegisterAll(registry *assistant.Registry, bus *assistant.Bus, tasksService *tasks.Service, plansService *plans.Service) {
	registerTaskTools(registry, bus, tasksService)
	registerPlanTools(registry, plansService)
}
