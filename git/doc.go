// Package git provides operations on the local repository the command runs
// in: reading the current branch, querying the branch's relationship to its
// remote counterpart, resolving the hosted project path from a remote URL,
// and pushing branches.
//
// The sync decision (PlanSync) is a pure function over an Ancestry snapshot
// so it can be tested without a repository; only Repo methods touch git.
package git
