package tracker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/gibr/config"
)

// jira fetches issues from a Jira instance over its REST API.
type jira struct {
	client  *http.Client
	baseURL string
	user    string
	token   string
}

// jiraIssue mirrors the subset of the Jira issue answer the
// tracker needs.
type jiraIssue struct {
	Key    string     `json:"key"`
	Fields jiraFields `json:"fields"`
}

type jiraFields struct {
	Summary   string        `json:"summary"`
	Assignee  *jiraUser     `json:"assignee"`
	IssueType jiraIssueType `json:"issuetype"`
}

type jiraUser struct {
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
}

type jiraIssueType struct {
	Name string `json:"name"`
}

func newJira(cfg config.Tracker) (*jira, error) {
	const errCtx = "creating jira tracker"

	if cfg.URL == "" {
		return nil, fmt.Errorf(
			"%s: url must be set", errCtx,
		)
	}

	if cfg.User == "" {
		return nil, fmt.Errorf(
			"%s: user must be set", errCtx,
		)
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf(
			"%s: token must be set", errCtx,
		)
	}

	return &jira{
		client:  &http.Client{},
		baseURL: strings.TrimRight(cfg.URL, "/"),
		user:    cfg.User,
		token:   cfg.Token,
	}, nil
}

// GetIssue fetches one issue by key (e.g. "PROJ-123").
func (j *jira) GetIssue(
	ctx context.Context,
	id string,
) (*Issue, error) {
	const errCtx = "fetching jira issue"

	url := fmt.Sprintf(
		"%s/rest/api/2/issue/%s"+
			"?fields=summary,assignee,issuetype",
		j.baseURL, id,
	)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, url, nil,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new request: %w", errCtx, err,
		)
	}

	req.SetBasicAuth(j.user, j.token)
	req.Header.Set("Accept", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, id, err,
		)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, fmt.Errorf(
			"%s: %s: status %d: %s",
			errCtx, id, resp.StatusCode,
			string(body),
		)
	}

	var ji jiraIssue
	if err := json.NewDecoder(resp.Body).
		Decode(&ji); err != nil {
		return nil, fmt.Errorf(
			"%s: %s: decode: %w", errCtx, id, err,
		)
	}

	assignee := ""
	if ji.Fields.Assignee != nil {
		assignee = ji.Fields.Assignee.Name
		if assignee == "" {
			assignee = ji.Fields.Assignee.DisplayName
		}
	}

	issueType := strings.ToLower(
		ji.Fields.IssueType.Name,
	)
	if issueType == "" {
		issueType = "issue"
	}

	return &Issue{
		ID:       ji.Key,
		Title:    ji.Fields.Summary,
		Assignee: assignee,
		Type:     issueType,
	}, nil
}

// NumericIssues reports that Jira keys are not numeric.
func (j *jira) NumericIssues() bool { return false }

// DisplayName names the tracker in user-facing messages.
func (j *jira) DisplayName() string { return "Jira" }
