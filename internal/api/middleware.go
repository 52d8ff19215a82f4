package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vin-jex/design-platform-client/internal/observability"
)

const (
	headerRequestID   = "X-Request-ID"
	headerAccessToken = "infurnia-access-token"
)

func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestID := request.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := observability.WithLogger(request.Context(), s.logger)
		ctx = observability.WithRequestID(ctx, requestID)

		writer.Header().Set(headerRequestID, requestID)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (s *Server) requireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if s.accessToken != "" && request.Header.Get(headerAccessToken) != s.accessToken {
			observability.MockRequests.WithLabelValues("unauthorized", "401").Inc()
			writeFailure(writer, http.StatusUnauthorized, "invalid access token")
			return
		}

		next.ServeHTTP(writer, request)
	})
}
