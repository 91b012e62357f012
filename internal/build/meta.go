package build

import (
	"log/slog"

	git "github.com/go-git/go-git/v5"
)

const shortHashLen = 8

// sourceCommit returns the short commit id of the source tree's HEAD, or
// "none" when the source is not inside a git repository. The id appears in
// the build metadata so generated pages can say which revision they came from.
func sourceCommit(source string) string {
	repo, err := git.PlainOpenWithOptions(source, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		slog.Debug("Source is not a git repository", "source", source)
		return "none"
	}
	head, err := repo.Head()
	if err != nil {
		slog.Debug("Could not resolve source HEAD", "source", source, "error", err)
		return "none"
	}
	return head.Hash().String()[:shortHashLen]
}
