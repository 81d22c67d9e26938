// Package deleter validates profile deletion requests and turns them into
// one of a fixed set of plain-text responses. The actual removal is
// delegated to an injected profileRemover.
package deleter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/patric-chuzhbe/profiledel/internal/logger"
	"github.com/patric-chuzhbe/profiledel/internal/models"
)

const userIDParam = "user_id"

const (
	bodyMethodNotAllowed = "Method Not Allowed"
	bodyMissingUserID    = "Missing user_id"
	bodyDeletedFormat    = "User profile %s deleted"
	bodyNotFoundFormat   = "User profile %s not found"
	bodyFailedFormat     = "Failed to delete user profile: %v"
)

// ErrMissingUserID is returned by ExtractUserID when the URL carries no usable user_id.
var ErrMissingUserID = errors.New("missing user_id")

type profileRemover interface {
	RemoveProfile(ctx context.Context, userID string) error
}

// Request is the part of an incoming request the responder looks at.
type Request struct {
	Method string
	URL    string
}

// Response is a plain-text body with a status code.
type Response struct {
	Body   string
	Status int
}

// Deleter answers profile deletion requests.
type Deleter struct {
	remover profileRemover
}

// New returns a Deleter that removes profiles with remover.
func New(remover profileRemover) *Deleter {
	return &Deleter{
		remover: remover,
	}
}

// ExtractUserID returns the first user_id value of rawURL's query.
// Malformed URLs are reported as errors wrapping the parse failure. A malformed
// query is only an error when user_id itself did not decode; badly encoded
// sibling parameters are ignored. An absent or empty value is ErrMissingUserID.
func ExtractUserID(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("in internal/deleter/deleter.go/ExtractUserID(): error while `url.Parse()` calling: %w", err)
	}

	// ParseQuery keeps every pair it could decode, even when it reports an error.
	query, err := url.ParseQuery(parsed.RawQuery)
	userID := query.Get(userIDParam)
	if userID != "" {
		return userID, nil
	}
	if err != nil {
		return "", fmt.Errorf("in internal/deleter/deleter.go/ExtractUserID(): error while `url.ParseQuery()` calling: %w", err)
	}

	return "", ErrMissingUserID
}

// Respond runs the method check, the user_id extraction and the removal, in that order.
func (d *Deleter) Respond(ctx context.Context, req Request) Response {
	if req.Method != http.MethodDelete {
		return Response{Body: bodyMethodNotAllowed, Status: http.StatusMethodNotAllowed}
	}

	userID, err := ExtractUserID(req.URL)
	if err != nil {
		// A URL that does not parse is treated exactly like one without user_id.
		if !errors.Is(err, ErrMissingUserID) {
			logger.Log.Debugw("unparseable deletion request URL", "url", req.URL, zap.Error(err))
		}
		return Response{Body: bodyMissingUserID, Status: http.StatusBadRequest}
	}

	err = d.remover.RemoveProfile(ctx, userID)
	switch {
	case err == nil:
		return Response{Body: fmt.Sprintf(bodyDeletedFormat, userID), Status: http.StatusOK}
	case errors.Is(err, models.ErrProfileNotFound):
		return Response{Body: fmt.Sprintf(bodyNotFoundFormat, userID), Status: http.StatusNotFound}
	}

	logger.Log.Errorw(
		"profile removal failed",
		"user_id", userID,
		"request_id", logger.RequestIDFromContext(ctx),
		zap.Error(err),
	)

	return Response{Body: fmt.Sprintf(bodyFailedFormat, err), Status: http.StatusInternalServerError}
}

// ServeHTTP writes the Response for r as plain text. The request body is never read.
func (d *Deleter) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	result := d.Respond(request.Context(), Request{
		Method: request.Method,
		URL:    request.URL.String(),
	})

	response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	response.WriteHeader(result.Status)
	if _, err := response.Write([]byte(result.Body)); err != nil {
		logger.Log.Debugln("Error calling the `response.Write()`: ", zap.Error(err))
	}
}
