package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /{$}", handler.Root)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	// "/api/players/load" is an exact pattern and therefore wins over the
	// wildcard "/api/players/{id}" for that path.
	mux.HandleFunc("GET /api/players", handler.ListPlayers)
	mux.HandleFunc("GET /api/players/load", handler.LoadPlayers)
	mux.HandleFunc("GET /api/players/description/{id}", handler.DescribePlayer)
	mux.HandleFunc("GET /api/players/{id}", handler.GetPlayer)
	mux.HandleFunc("POST /api/players/{id}", handler.CreatePlayer)
	mux.HandleFunc("PUT /api/players/{id}", handler.UpdatePlayer)
	mux.HandleFunc("DELETE /api/players/{id}", handler.DeletePlayer)
}
