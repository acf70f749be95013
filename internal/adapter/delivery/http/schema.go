package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/html-url-shortener/internal/entity"
)

// shortenRequest represents a request to shorten a batch of URLs.
type shortenRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,required,max=2048,http_url"`
}

// htmlRequest represents a request to shorten every URL embedded in a document.
type htmlRequest struct {
	HTML string `json:"html" validate:"required"`
}

// urlResponse represents a long URL and its short link.
type urlResponse struct {
	LongURL  string `json:"longUrl"`
	ShortURL string `json:"shortUrl"`
}

type shortenResponse struct {
	Success bool          `json:"success"`
	URLs    []urlResponse `json:"urls"`
}

type htmlResponse struct {
	Success bool          `json:"success"`
	HTML    string        `json:"html"`
	URLs    []urlResponse `json:"urls"`
}

// toURLResponses converts entities to responses using shortURL to build links.
func toURLResponses(urls []*entity.URL, shortURL func(string) string) []urlResponse {
	resp := make([]urlResponse, 0, len(urls))

	for _, url := range urls {
		resp = append(resp, urlResponse{
			LongURL:  url.LongURL,
			ShortURL: shortURL(url.ShortCode),
		})
	}

	return resp
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details []validationError `json:"details,omitempty"`
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse = errorResponse{
		Error: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Error: "invalid request body",
	}

	tooManyURLsResponse = errorResponse{
		Error: "too many urls",
	}

	urlNotFoundResponse = errorResponse{
		Error: "url not found",
	}

	serverErrorResponse = errorResponse{
		Error: "server error occurred",
	}
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "min":
		return "at least one url is required"
	case "max":
		return "url is too long"
	case "http_url":
		return "invalid http or https url"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Error:   "validation error",
		Details: getValidationErrors(err),
	}
}
