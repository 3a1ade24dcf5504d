package handler

import (
	"net/http"
	"sync"

	"tourdesk/config"
	"tourdesk/di"
	"tourdesk/shared/logger"
)

var (
	once    sync.Once
	handler http.Handler
)

// Handler serves the API as a single serverless function.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)
		logger.SetFormat(cfg)

		server, _ := di.InitializeService()
		handler = server.Handler()
	})

	handler.ServeHTTP(w, r)
}
