// Package gitlab is the client for the GitLab service boundary:
// credential validation, default-branch lookup, and merge request
// creation. Failures are classified into the sentinel errors below
// so callers can name the failure kind instead of parsing messages.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	gl "gitlab.com/gitlab-org/api/client-go"
)

// ErrAuth reports that the service rejected the credentials.
var ErrAuth = errors.New("authentication rejected")

// ErrConnectivity reports that the service could not be reached.
var ErrConnectivity = errors.New("cannot reach gitlab")

// ErrUnknownProject reports that the configured project does not
// exist or is not visible to the token.
var ErrUnknownProject = errors.New("unknown project")

// ErrRejected reports that the service refused the merge request,
// e.g. a duplicate or an invalid target branch.
var ErrRejected = errors.New("merge request rejected")

// Config holds the settings needed to create a GitLab client.
type Config struct {
	// URL is the base URL of the GitLab instance
	// (e.g. "https://gitlab.example.com").
	URL string
	// Token is a personal or project access token used for
	// authentication.
	Token string
	// Project is the full project path (e.g. "group/project").
	Project string
	// Insecure disables TLS certificate verification.
	Insecure bool
}

// MergeRequestSpec is the payload of one merge request creation
// call. TargetBranch must already be resolved by the caller.
type MergeRequestSpec struct {
	SourceBranch       string
	TargetBranch       string
	Title              string
	Description        string
	RemoveSourceBranch bool
}

// MergeRequest is the reference handle of a created merge request.
type MergeRequest struct {
	IID          int
	Title        string
	WebURL       string
	SourceBranch string
	TargetBranch string
}

// Client talks to one GitLab instance about one project.
type Client struct {
	client  *gl.Client
	project string
}

// NewClient validates cfg, applies the transport policy, and
// returns a Client. No network traffic happens here; call Validate
// before relying on the credentials.
func NewClient(cfg Config) (*Client, error) {
	const errCtx = "creating gitlab client"

	if cfg.URL == "" {
		return nil, fmt.Errorf(
			"%s: url must be set", errCtx,
		)
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf(
			"%s: token must be set", errCtx,
		)
	}

	if cfg.Project == "" {
		return nil, fmt.Errorf(
			"%s: project must be set", errCtx,
		)
	}

	// One attempt per call: failed calls are reported, never
	// retried.
	client, err := gl.NewClient(
		cfg.Token,
		gl.WithBaseURL(cfg.URL),
		gl.WithHTTPClient(newHTTPClient(cfg.Insecure)),
		gl.WithoutRetries(),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Client{
		client:  client,
		project: cfg.Project,
	}, nil
}

// Validate checks connectivity and credentials by fetching the
// token's own user. Returns ErrAuth or ErrConnectivity.
func (c *Client) Validate(ctx context.Context) error {
	const errCtx = "validating gitlab credentials"

	_, resp, err := c.client.Users.CurrentUser(
		gl.WithContext(ctx),
	)
	if err == nil {
		return nil
	}

	return fmt.Errorf(
		"%s: %v: %w", errCtx, err, classify(resp),
	)
}

// DefaultBranch returns the project's default branch. Returns
// ErrUnknownProject when the project path does not resolve.
func (c *Client) DefaultBranch(
	ctx context.Context,
) (string, error) {
	const errCtx = "looking up default branch"

	project, resp, err := c.client.Projects.GetProject(
		c.project, nil, gl.WithContext(ctx),
	)
	if err != nil {
		return "", fmt.Errorf(
			"%s: project %s: %v: %w",
			errCtx, c.project, err, classify(resp),
		)
	}

	return project.DefaultBranch, nil
}

// CreateMergeRequest submits spec and returns the created merge
// request handle. Duplicates are not suppressed: the service's
// conflict answer surfaces as ErrRejected.
func (c *Client) CreateMergeRequest(
	ctx context.Context,
	spec MergeRequestSpec,
) (*MergeRequest, error) {
	const errCtx = "creating merge request"

	opts := gl.CreateMergeRequestOptions{
		Title:              &spec.Title,
		Description:        &spec.Description,
		SourceBranch:       &spec.SourceBranch,
		TargetBranch:       &spec.TargetBranch,
		RemoveSourceBranch: &spec.RemoveSourceBranch,
	}

	created, resp, err := c.client.MergeRequests.CreateMergeRequest(
		c.project, &opts, gl.WithContext(ctx),
	)
	if err != nil {
		logResponseBody(resp)

		return nil, fmt.Errorf(
			"%s: %s into %s: %v: %w",
			errCtx, spec.SourceBranch,
			spec.TargetBranch, err, classify(resp),
		)
	}

	return &MergeRequest{
		IID:          int(created.IID),
		Title:        created.Title,
		WebURL:       created.WebURL,
		SourceBranch: created.SourceBranch,
		TargetBranch: created.TargetBranch,
	}, nil
}

// classify maps a service response to an error kind. A nil
// response means the transport never delivered an answer.
func classify(resp *gl.Response) error {
	if resp == nil {
		return ErrConnectivity
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusNotFound:
		return ErrUnknownProject
	default:
		return ErrRejected
	}
}

// logResponseBody logs the raw service answer for debugging.
func logResponseBody(resp *gl.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	defer resp.Body.Close() //nolint:errcheck

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn(
			"cannot read response body",
			"error", err,
		)

		return
	}

	slog.Warn("gitlab response", "body", string(rb))
}
