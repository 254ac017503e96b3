package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// responseWriter capture le code de statut écrit par le handler.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// Unwrap permet à http.ResponseController de retrouver le writer
// d'origine (flush des événements SSE).
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// RequestLogger journalise chaque requête HTTP. Les réponses 5xx
// passent en niveau error, les 4xx en warn.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With(slog.String("component", "http"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote", r.RemoteAddr),
			}

			switch {
			case rw.status >= 500:
				log.Error("requête HTTP", attrs...)
			case rw.status >= 400:
				log.Warn("requête HTTP", attrs...)
			default:
				log.Info("requête HTTP", attrs...)
			}
		})
	}
}
