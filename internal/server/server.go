package server

import (
	"fmt"
	"net/http"
	"time"

	"assistant-gateway/internal/config"
)

func NewHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func Run(cfg config.Config, handler http.Handler) error {
	return NewHTTPServer(cfg, handler).ListenAndServe()
}
