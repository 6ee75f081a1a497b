package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"

	"codeberg.org/cropdoctor/cropdoctor/config"
	"codeberg.org/cropdoctor/cropdoctor/server/assets"
	"codeberg.org/cropdoctor/cropdoctor/server/middleware"
	"codeberg.org/cropdoctor/cropdoctor/server/routes"
)

// DefineRoutes sets up all the routes for the application using our custom Router.
//
// It returns a *Router without middleware.
func (router *Router) DefineRoutes() {
	fileServerHandler := fileServer()

	// Serve files from subdirectories within 'assets/web'.
	// Patterns ending in "/" are prefix matches.
	router.Handle("GET /img/", fileServerHandler)
	router.Handle("GET /css/", fileServerHandler)
	router.Handle("GET /js/", fileServerHandler)

	// Language delivery and preference routes
	router.HandleFunc("GET /api/translations", middleware.CatchError(routes.Translations))
	router.HandleFunc("GET /api/language", middleware.CatchError(routes.CurrentLanguage))
	router.HandleFunc("POST /api/language", middleware.CatchError(routes.SetLanguage))
	router.HandleFunc("GET /api/detect-language", middleware.CatchError(routes.DetectLanguage))

	// Diagnosis routes
	router.HandleFunc("POST /api/predict", middleware.CatchError(routes.Predict))
	router.HandleFunc("POST /api/diagnosis", middleware.CatchError(routes.Diagnosis))
	router.HandleFunc("GET /api/history", middleware.CatchError(routes.History))

	// Page routes
	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(routes.IndexPage))
	router.HandleFunc("GET /history", middleware.CatchError(routes.HistoryPage))
	router.HandleFunc("GET /guide", middleware.CatchError(routes.GuidePage))
	router.HandleFunc("GET /tools", middleware.CatchError(routes.ToolsPage))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}
}

// Serve static files from embedded assets.
func fileServer() http.HandlerFunc {
	staticContentFS, err := fs.Sub(assets.FS, "assets/web")
	if err != nil {
		panic(fmt.Errorf("failed to create sub-filesystem for embedded 'assets/web' directory: %w", err))
	}

	fileServer := http.FileServer(http.FS(staticContentFS))
	fileServerHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=3600")
		// Using a strong ETag for static files embedded via go:embed
		//
		// Since go:embed requires rebuilding when files change, we use a per-instance
		// cache ID to ensure browsers fetch fresh content after any deployment.
		w.Header().Set("ETag", config.Global.Instance.FileServerCacheID)
		fileServer.ServeHTTP(w, r)
	})

	return fileServerHandler
}

func registerDebugRoutes(router *Router) {
	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
}
