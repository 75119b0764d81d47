package results

import (
	"fmt"
	"os"
	"regexp"
	"sort"
)

// Target receptor files are named <name>_target.pdb in the resources tree
var targetFileRegex = regexp.MustCompile(`^(\w+)_target\.pdb$`)

// ListTargetNames scans the targets resource directory and returns the names
// of all supported targets, sorted alphabetically.
func ListTargetNames(targetsDir string) ([]string, error) {
	entries, err := os.ReadDir(targetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := targetFileRegex.FindStringSubmatch(entry.Name())
		if match != nil {
			names = append(names, match[1])
		}
	}

	sort.Strings(names)
	return names, nil
}
