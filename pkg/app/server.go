package app

// pkg/app/server.go — bridges Application → internal/server.
// The only job of this file is to build the HTTP handler (via kernel.go)
// and pass it to the internal server that actually binds the port.

import (
	"net/http"

	"github.com/andreimonforte/malocozz/internal/server"
)

// startServer hands internal/server.Start a handler builder. Boot hooks
// and handler construction run after the backing services are up.
func startServer(a *Application) error {
	return server.Start(func() http.Handler {
		for _, fn := range a.bootFns {
			fn()
		}
		return buildHandler(a)
	})
}
