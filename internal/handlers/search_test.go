package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"docsite/internal/storage"
	storage_mocks "docsite/internal/storage/mocks"
)

func TestSearchHandler(t *testing.T) {
	docs := []storage.DocumentRecord{
		{Position: 0, Level: 1, PageTitle: "Install", Title: "Install", Content: "Download the binary."},
		{Position: 4, Level: 2, PageTitle: "Usage", Title: "Binary flags", Content: "Flags."},
	}

	tests := []struct {
		name        string
		method      string
		target      string
		setup       func(m *storage_mocks.MockDocumentStore)
		wantStatus  int
		wantResults int
	}{
		{
			name:   "results",
			method: http.MethodGet,
			target: "/api/search?q=binary",
			setup: func(m *storage_mocks.MockDocumentStore) {
				m.EXPECT().Search(gomock.Any(), "binary", defaultSearchLimit).Return(docs, nil)
			},
			wantStatus:  http.StatusOK,
			wantResults: 2,
		},
		{
			name:   "query is trimmed and limit capped",
			method: http.MethodGet,
			target: "/api/search?q=+binary+&limit=1000",
			setup: func(m *storage_mocks.MockDocumentStore) {
				m.EXPECT().Search(gomock.Any(), "binary", maxSearchLimit).Return(docs[:1], nil)
			},
			wantStatus:  http.StatusOK,
			wantResults: 1,
		},
		{
			name:   "no results is an empty array",
			method: http.MethodGet,
			target: "/api/search?q=nothing&limit=5",
			setup: func(m *storage_mocks.MockDocumentStore) {
				m.EXPECT().Search(gomock.Any(), "nothing", 5).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
		},
		{name: "missing query", method: http.MethodGet, target: "/api/search", wantStatus: http.StatusBadRequest},
		{name: "invalid limit", method: http.MethodGet, target: "/api/search?q=a&limit=x", wantStatus: http.StatusBadRequest},
		{name: "zero limit", method: http.MethodGet, target: "/api/search?q=a&limit=0", wantStatus: http.StatusBadRequest},
		{name: "wrong method", method: http.MethodPost, target: "/api/search?q=a", wantStatus: http.StatusMethodNotAllowed},
		{
			name:   "store error",
			method: http.MethodGet,
			target: "/api/search?q=a",
			setup: func(m *storage_mocks.MockDocumentStore) {
				m.EXPECT().Search(gomock.Any(), "a", defaultSearchLimit).Return(nil, errors.New("db closed"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := storage_mocks.NewMockDocumentStore(ctrl)
			if tt.setup != nil {
				tt.setup(store)
			}

			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()
			NewSearchHandler(store).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if w.Code != http.StatusOK {
				var errResp ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil || errResp.Error == "" {
					t.Errorf("error body = %s", w.Body.String())
				}
				return
			}

			var resp SearchResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Results == nil {
				t.Error("results should encode as an array")
			}
			if len(resp.Results) != tt.wantResults {
				t.Errorf("got %d results, want %d", len(resp.Results), tt.wantResults)
			}
		})
	}
}
