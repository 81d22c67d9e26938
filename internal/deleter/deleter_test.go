package deleter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/profiledel/internal/db/placeholder"
	"github.com/patric-chuzhbe/profiledel/internal/mockstorage"
	"github.com/patric-chuzhbe/profiledel/internal/models"
)

func TestExtractUserID(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		want    string
		wantErr bool
		missing bool
	}{
		{name: "present", rawURL: "https://host/path?user_id=abc123", want: "abc123"},
		{name: "first of many", rawURL: "https://host/path?user_id=a&user_id=b", want: "a"},
		{name: "decoded", rawURL: "https://host/path?user_id=a%20b", want: "a b"},
		{name: "untrimmed", rawURL: "https://host/path?user_id=%20x%20", want: " x "},
		{name: "relative", rawURL: "/?user_id=42", want: "42"},
		{name: "no query", rawURL: "https://host/path", wantErr: true, missing: true},
		{name: "other key", rawURL: "https://host/path?id=1", wantErr: true, missing: true},
		{name: "empty value", rawURL: "https://host/path?user_id=", wantErr: true, missing: true},
		{name: "malformed query", rawURL: "https://host/path?user_id=%zz", wantErr: true},
		{name: "badly escaped sibling", rawURL: "https://host/path?user_id=abc&x=%zz", want: "abc"},
		{name: "semicolon in sibling", rawURL: "https://host/path?user_id=abc&utm=a;b", want: "abc"},
		{name: "sibling broken before user_id", rawURL: "https://host/path?x=%zz&user_id=abc", want: "abc"},
		{name: "empty first of many", rawURL: "https://host/path?user_id=&user_id=x", wantErr: true, missing: true},
		{name: "empty user_id with broken sibling", rawURL: "https://host/path?user_id=&x=%zz", wantErr: true},
		{name: "malformed url", rawURL: "https://[::1/path?user_id=abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractUserID(tt.rawURL)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			assert.Error(t, err)
			assert.Empty(t, got)
			assert.Equal(t, tt.missing, errors.Is(err, ErrMissingUserID))
		})
	}
}

func TestRespondWithPlaceholder(t *testing.T) {
	d := New(placeholder.New())

	tests := []struct {
		name string
		req  Request
		want Response
	}{
		{
			name: "delete with user_id",
			req:  Request{Method: http.MethodDelete, URL: "https://host/path?user_id=abc123"},
			want: Response{Body: "User profile abc123 deleted", Status: http.StatusOK},
		},
		{
			name: "get with user_id",
			req:  Request{Method: http.MethodGet, URL: "https://host/path?user_id=abc123"},
			want: Response{Body: "Method Not Allowed", Status: http.StatusMethodNotAllowed},
		},
		{
			name: "lowercase method",
			req:  Request{Method: "delete", URL: "https://host/path?user_id=abc123"},
			want: Response{Body: "Method Not Allowed", Status: http.StatusMethodNotAllowed},
		},
		{
			name: "post with malformed url",
			req:  Request{Method: http.MethodPost, URL: "https://[::1"},
			want: Response{Body: "Method Not Allowed", Status: http.StatusMethodNotAllowed},
		},
		{
			name: "delete without query",
			req:  Request{Method: http.MethodDelete, URL: "https://host/path"},
			want: Response{Body: "Missing user_id", Status: http.StatusBadRequest},
		},
		{
			name: "delete with empty user_id",
			req:  Request{Method: http.MethodDelete, URL: "https://host/path?user_id="},
			want: Response{Body: "Missing user_id", Status: http.StatusBadRequest},
		},
		{
			name: "delete with malformed query",
			req:  Request{Method: http.MethodDelete, URL: "https://host/path?user_id=%zz"},
			want: Response{Body: "Missing user_id", Status: http.StatusBadRequest},
		},
		{
			name: "delete with badly escaped sibling parameter",
			req:  Request{Method: http.MethodDelete, URL: "https://host/path?user_id=abc&x=%zz"},
			want: Response{Body: "User profile abc deleted", Status: http.StatusOK},
		},
		{
			name: "delete with semicolon in sibling parameter",
			req:  Request{Method: http.MethodDelete, URL: "https://host/path?user_id=abc&utm=a;b"},
			want: Response{Body: "User profile abc deleted", Status: http.StatusOK},
		},
		{
			name: "delete with empty first user_id",
			req:  Request{Method: http.MethodDelete, URL: "https://host/path?user_id=&user_id=x"},
			want: Response{Body: "Missing user_id", Status: http.StatusBadRequest},
		},
		{
			name: "delete with exotic user_id",
			req:  Request{Method: http.MethodDelete, URL: "https://host/path?user_id=Ab-%2F_9"},
			want: Response{Body: "User profile Ab-/_9 deleted", Status: http.StatusOK},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := d.Respond(context.Background(), tt.req)
			second := d.Respond(context.Background(), tt.req)

			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, second)
		})
	}
}

func TestRespondWithRemoverOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		removeErr error
		want      Response
	}{
		{
			name: "removed",
			want: Response{Body: "User profile u1 deleted", Status: http.StatusOK},
		},
		{
			name:      "not found",
			removeErr: models.ErrProfileNotFound,
			want:      Response{Body: "User profile u1 not found", Status: http.StatusNotFound},
		},
		{
			name:      "wrapped not found",
			removeErr: errors.Join(errors.New("lookup"), models.ErrProfileNotFound),
			want:      Response{Body: "User profile u1 not found", Status: http.StatusNotFound},
		},
		{
			name:      "failure",
			removeErr: errors.New("connection refused"),
			want:      Response{Body: "Failed to delete user profile: connection refused", Status: http.StatusInternalServerError},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remover := &mockstorage.RemoverMock{}
			remover.On("RemoveProfile", mock.Anything, "u1").Return(tt.removeErr).Once()

			got := New(remover).Respond(context.Background(), Request{
				Method: http.MethodDelete,
				URL:    "/profile?user_id=u1",
			})

			assert.Equal(t, tt.want, got)
			remover.AssertExpectations(t)
		})
	}
}

func TestRespondDoesNotCallRemoverOnRejectedRequests(t *testing.T) {
	remover := &mockstorage.RemoverMock{}
	d := New(remover)

	d.Respond(context.Background(), Request{Method: http.MethodGet, URL: "/?user_id=u1"})
	d.Respond(context.Background(), Request{Method: http.MethodDelete, URL: "/"})

	remover.AssertNotCalled(t, "RemoveProfile", mock.Anything, mock.Anything)
}

func TestServeHTTP(t *testing.T) {
	d := New(placeholder.New())

	req := httptest.NewRequest(http.MethodDelete, "/path?user_id=abc123", strings.NewReader("ignored"))
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User profile abc123 deleted", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}
