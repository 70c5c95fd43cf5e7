package middleware

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/vfg2006/social-dashboard/pkg/apiErrors"
	"github.com/vfg2006/social-dashboard/pkg/log"
)

// slowRequestThreshold considera o tempo das chamadas ao backend, que
// dominam a duração das páginas
const slowRequestThreshold = 3 * time.Second

// LoggingMiddleware registra o início e o fim de cada requisição. Em
// desenvolvimento o formato é resumido; em produção inclui os detalhes da
// requisição e o ID de correlação.
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context(), r.Header.Get(log.CorrelationIDHeader))
			r = r.WithContext(ctx)
			w.Header().Set(log.CorrelationIDHeader, correlationID)

			isDev := log.IsDevelopment()
			fields := log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			}
			if page := pageFromPath(r.URL.Path); page != "" {
				fields["page"] = page
			}

			if isDev {
				log.L.WithFields(fields).Info("→ Iniciando requisição")
			} else {
				fields["correlation_id"] = correlationID
				log.L.WithFields(fields).WithFields(log.Fields{
					"remote_addr":    r.RemoteAddr,
					"query":          r.URL.RawQuery,
					"user_agent":     r.UserAgent(),
					"content_length": r.ContentLength,
				}).Info("Requisição iniciada")
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			fields["status_code"] = sw.status

			var message string
			if isDev {
				symbol := "✓"
				if sw.status >= http.StatusBadRequest {
					symbol = "✗"
				}
				message = fmt.Sprintf("%s Completada em %s", symbol, formatDuration(elapsed))
			} else {
				fields["duration_ms"] = elapsed.Milliseconds()
				message = "Requisição finalizada"
			}

			logByStatus(log.L.WithFields(fields), sw.status, message)

			if elapsed > slowRequestThreshold {
				log.L.WithFields(fields).Warnf("Requisição lenta: %s", formatDuration(elapsed))
			}
		})
	}
}

func logByStatus(logger log.Logger, status int, message string) {
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error(message)
	case status >= http.StatusBadRequest:
		logger.Warn(message)
	default:
		logger.Info(message)
	}
}

// pageFromPath extrai o nome da página de /v1/pages/:page
func pageFromPath(p string) string {
	const prefix = "/v1/pages/"
	if !strings.HasPrefix(p, prefix) {
		return ""
	}
	name, _, _ := strings.Cut(strings.TrimPrefix(p, prefix), "/")
	return name
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d µs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
}

// statusWriter guarda o status code escrito pelo handler
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// LogPanicMiddleware recupera panics dos handlers e responde 500
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				logger := log.L.WithFields(log.Fields{
					"panic_error": recovered,
					"method":      r.Method,
					"path":        r.URL.Path,
				})

				if log.IsDevelopment() {
					logger.Error("❌ PANIC na aplicação")
					fmt.Fprintf(os.Stderr, "\n\n=== STACK TRACE ===\n%s\n=================\n\n", stack)
				} else {
					logger.WithFields(log.Fields{
						"correlation_id": log.GetCorrelationID(r.Context()),
						"stack_trace":    string(stack),
					}).Error("Erro não tratado na aplicação")
				}

				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
