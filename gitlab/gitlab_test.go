package gitlab_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/gibr/gitlab"
)

func TestNewClient_valid(t *testing.T) {
	t.Parallel()

	cl, err := gitlab.NewClient(gitlab.Config{
		URL:     "https://gitlab.example.com",
		Token:   "tok",
		Project: "group/project",
	})

	require.NoError(t, err)
	assert.NotNil(t, cl)
}

func TestNewClient_missing_url(t *testing.T) {
	t.Parallel()

	cl, err := gitlab.NewClient(gitlab.Config{
		Token:   "tok",
		Project: "group/project",
	})

	assert.Nil(t, cl)
	assert.ErrorContains(t, err, "url must be set")
}

func TestNewClient_missing_token(t *testing.T) {
	t.Parallel()

	cl, err := gitlab.NewClient(gitlab.Config{
		URL:     "https://gitlab.example.com",
		Project: "group/project",
	})

	assert.Nil(t, cl)
	assert.ErrorContains(t, err, "token must be set")
}

func TestNewClient_missing_project(t *testing.T) {
	t.Parallel()

	cl, err := gitlab.NewClient(gitlab.Config{
		URL:   "https://gitlab.example.com",
		Token: "tok",
	})

	assert.Nil(t, cl)
	assert.ErrorContains(t, err, "project must be set")
}

func TestClient_Validate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v4/user", r.URL.Path)

			w.Header().Set(
				"Content-Type", "application/json",
			)
			//nolint:errcheck
			w.Write([]byte(
				`{"id":1,"username":"bot"}`,
			))
		},
	))
	defer srv.Close()

	cl := newTestClient(t, srv.URL, false)

	err := cl.Validate(context.Background())

	assert.NoError(t, err)
}

func TestClient_Validate_bad_token(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(
				w, `{"message":"401 Unauthorized"}`,
				http.StatusUnauthorized,
			)
		},
	))
	defer srv.Close()

	cl := newTestClient(t, srv.URL, false)

	err := cl.Validate(context.Background())

	assert.ErrorIs(t, err, gitlab.ErrAuth)
}

func TestClient_Validate_unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	))

	url := srv.URL

	srv.Close()

	cl := newTestClient(t, url, false)

	err := cl.Validate(context.Background())

	assert.ErrorIs(t, err, gitlab.ErrConnectivity)
}

func TestClient_DefaultBranch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(
				t,
				"/api/v4/projects/group%2Fproject",
				r.URL.EscapedPath(),
			)

			w.Header().Set(
				"Content-Type", "application/json",
			)
			//nolint:errcheck
			w.Write([]byte(
				`{"id":7,"default_branch":"develop"}`,
			))
		},
	))
	defer srv.Close()

	cl := newTestClient(t, srv.URL, false)

	branch, err := cl.DefaultBranch(
		context.Background(),
	)

	require.NoError(t, err)
	assert.Equal(t, "develop", branch)
}

func TestClient_DefaultBranch_unknown_project(
	t *testing.T,
) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(
				w,
				`{"message":"404 Project Not Found"}`,
				http.StatusNotFound,
			)
		},
	))
	defer srv.Close()

	cl := newTestClient(t, srv.URL, false)

	_, err := cl.DefaultBranch(context.Background())

	assert.ErrorIs(t, err, gitlab.ErrUnknownProject)
}

func TestClient_CreateMergeRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(
				t, http.MethodPost, r.Method,
			)
			assert.Equal(
				t,
				"/api/v4/projects/group%2Fproject"+
					"/merge_requests",
				r.URL.EscapedPath(),
			)

			var payload struct {
				SourceBranch       string `json:"source_branch"`
				TargetBranch       string `json:"target_branch"`
				Title              string `json:"title"`
				Description        string `json:"description"`
				RemoveSourceBranch bool   `json:"remove_source_branch"`
			}

			err := json.NewDecoder(r.Body).
				Decode(&payload)
			assert.NoError(t, err)

			assert.Equal(
				t, "feature/x",
				payload.SourceBranch,
			)
			assert.Equal(
				t, "main", payload.TargetBranch,
			)
			assert.Equal(
				t, "feature/x", payload.Title,
			)
			assert.False(
				t, payload.RemoveSourceBranch,
			)

			w.Header().Set(
				"Content-Type", "application/json",
			)
			w.WriteHeader(http.StatusCreated)
			//nolint:errcheck
			w.Write([]byte(`{
				"iid": 42,
				"title": "feature/x",
				"web_url": "https://gitlab.example.com/group/project/-/merge_requests/42",
				"source_branch": "feature/x",
				"target_branch": "main"
			}`))
		},
	))
	defer srv.Close()

	cl := newTestClient(t, srv.URL, false)

	mr, err := cl.CreateMergeRequest(
		context.Background(),
		gitlab.MergeRequestSpec{
			SourceBranch: "feature/x",
			TargetBranch: "main",
			Title:        "feature/x",
		},
	)

	require.NoError(t, err)
	assert.Equal(t, 42, mr.IID)
	assert.Equal(t, "feature/x", mr.SourceBranch)
	assert.Equal(t, "main", mr.TargetBranch)
	assert.Contains(
		t, mr.WebURL, "/merge_requests/42",
	)
}

func TestClient_CreateMergeRequest_duplicate(
	t *testing.T,
) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(
				w,
				`{"message":["merge request already exists"]}`,
				http.StatusConflict,
			)
		},
	))
	defer srv.Close()

	cl := newTestClient(t, srv.URL, false)

	mr, err := cl.CreateMergeRequest(
		context.Background(),
		gitlab.MergeRequestSpec{
			SourceBranch: "feature/x",
			TargetBranch: "main",
			Title:        "feature/x",
		},
	)

	assert.Nil(t, mr)
	assert.ErrorIs(t, err, gitlab.ErrRejected)
}

func TestClient_self_signed_endpoint(t *testing.T) {
	t.Parallel()

	// httptest TLS servers use a self-signed certificate, which
	// is exactly the case the insecure flag exists for.
	srv := httptest.NewTLSServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(
				"Content-Type", "application/json",
			)
			//nolint:errcheck
			w.Write([]byte(
				`{"id":1,"username":"bot"}`,
			))
		},
	))
	defer srv.Close()

	strict := newTestClient(t, srv.URL, false)

	err := strict.Validate(context.Background())
	assert.ErrorIs(t, err, gitlab.ErrConnectivity)

	insecure := newTestClient(t, srv.URL, true)

	err = insecure.Validate(context.Background())
	assert.NoError(t, err)
}

func TestNewHTTPClient_strict_by_default(t *testing.T) {
	t.Parallel()

	cl := gitlab.NewHTTPClientForTest(false)

	assert.Nil(t, cl.Transport)
}

func newTestClient(
	t *testing.T,
	url string,
	insecure bool,
) *gitlab.Client {
	t.Helper()

	cl, err := gitlab.NewClient(gitlab.Config{
		URL:      url,
		Token:    "tok",
		Project:  "group/project",
		Insecure: insecure,
	})
	require.NoError(t, err)

	return cl
}
