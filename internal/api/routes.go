package api

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

func (s *Server) registerRoutes() {
	r := mux.NewRouter()

	r.Use(s.requestContext)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	r.Handle("/metrics", s.handleMetrics()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := r.PathPrefix("/enterprise_api").Subrouter()
	api.Use(s.requireAccessToken)
	api.HandleFunc("/{endpoint:.+}", s.handleEnterpriseCall).Methods(http.MethodPost)

	s.mux = r
}
