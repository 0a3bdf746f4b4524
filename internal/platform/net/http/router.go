package http

import "net/http"

// Handler is the plain handler shape routes take
type Handler = func(http.ResponseWriter, *http.Request)

// Routes registers endpoints
type Routes interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Handle(path string, h http.Handler)
}

// Router is what modules mount against; chi stays behind it
type Router interface {
	Routes
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))
	Mux() http.Handler
}
