package router

import (
	"codeberg.org/cropdoctor/cropdoctor/server/middleware"
	"codeberg.org/cropdoctor/cropdoctor/server/middleware/set_request_context"
)

func (router *Router) RegisterMiddleware() {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.Compress)
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)          // all responses need this
}
