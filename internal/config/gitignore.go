package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// gitignoreContent keeps cached pages and logs out of dotfile repositories
// that track the userfeed home.
const gitignoreContent = `# userfeed local data (auto-generated)
# config.yaml is tracked; cached pages and logs are not.
cache/
logs/
*.tmp
`

// GitignoreContent returns the .gitignore written into the userfeed home.
func GitignoreContent() string {
	return gitignoreContent
}

// EnsureGitignore writes a .gitignore into dir unless one exists. It reports
// whether a file was created and never overwrites.
func EnsureGitignore(dir string) (bool, error) {
	gitignorePath := filepath.Join(dir, ".gitignore")

	_, err := os.Stat(gitignorePath)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking .gitignore at %s: %w", gitignorePath, err)
	}

	if mkdirErr := os.MkdirAll(dir, 0o700); mkdirErr != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, mkdirErr)
	}

	//nolint:gosec // .gitignore must be world-readable (0644).
	if writeErr := os.WriteFile(gitignorePath, []byte(gitignoreContent), 0o644); writeErr != nil {
		return false, fmt.Errorf("writing .gitignore at %s: %w", gitignorePath, writeErr)
	}
	return true, nil
}
