package api

import (
	"github.com/sharanyaa23/DocSense/internal/processing"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Processing processing.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	processingSystem := processing.New(
		runtime.Workflow(),
		runtime.Config.Provider.Model,
		runtime.Logger,
	)

	return &Domain{
		Processing: processingSystem,
	}
}
