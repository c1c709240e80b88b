// Command gibr creates GitLab merge requests and issue-based
// branches from the current git checkout.
package main

func main() {
	Execute()
}
