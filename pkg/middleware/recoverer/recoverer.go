package recoverer

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/render"
	"github.com/vadimbarashkov/html-url-shortener/pkg/middleware"
)

// New returns a middleware that recovers from panics, logs them and responds
// with status 500 and resp encoded as JSON.
func New(logger *slog.Logger, resp any) middleware.Middleware {
	const op = "middleware.recoverer.New"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error(
					"something went wrong, panic occurred",
					slog.Group(op,
						slog.Any("err", rec),
						slog.String("stack", string(debug.Stack())),
					),
				)

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
