package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/html-url-shortener/internal/entity"
	"github.com/vadimbarashkov/html-url-shortener/internal/usecase"
)

func handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

type urlUseCase interface {
	ShortenURLs(ctx context.Context, longURLs []string) ([]*entity.URL, error)
	ShortenHTML(ctx context.Context, html string) (*usecase.HTMLResult, error)
	ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	ShortURL(shortCode string) string
}

type urlHandler struct {
	useCase  urlUseCase
	validate *validator.Validate
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate) *urlHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &urlHandler{
		useCase:  useCase,
		validate: validate,
	}
}

// decode binds and validates the request body, writing the error response
// itself. It reports whether the handler should continue.
func (h *urlHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		render.Status(r, http.StatusBadRequest)

		if errors.Is(err, io.EOF) {
			render.JSON(w, r, emptyRequestBodyResponse)
			return false
		}

		render.JSON(w, r, invalidRequestBodyResponse)
		return false
	}

	if err := h.validate.Struct(v); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return false
	}

	return true
}

func (h *urlHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrTooManyURLs):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, tooManyURLsResponse)
	case errors.Is(err, entity.ErrURLNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
	}
}

func (h *urlHandler) shortenURLs(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if !h.decode(w, r, &req) {
		return
	}

	urls, err := h.useCase.ShortenURLs(r.Context(), req.URLs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, shortenResponse{
		Success: true,
		URLs:    toURLResponses(urls, h.useCase.ShortURL),
	})
}

func (h *urlHandler) shortenHTML(w http.ResponseWriter, r *http.Request) {
	var req htmlRequest

	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.useCase.ShortenHTML(r.Context(), req.HTML)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, htmlResponse{
		Success: true,
		HTML:    res.HTML,
		URLs:    toURLResponses(res.URLs, h.useCase.ShortURL),
	})
}

func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	url, err := h.useCase.ResolveShortCode(r.Context(), shortCode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.Redirect(w, r, url.LongURL, http.StatusMovedPermanently)
}
