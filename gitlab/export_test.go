package gitlab

// Exported aliases for testing internal functions from the
// gitlab_test package.

// NewHTTPClientForTest exposes newHTTPClient.
var NewHTTPClientForTest = newHTTPClient
