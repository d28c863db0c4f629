package resolve

import (
	"fmt"
	"path/filepath"
	"sort"
)

// resolveFolder returns folder if it exists as given, else folder relative
// to repoRoot.
func resolveFolder(folder, repoRoot string) (string, error) {
	if dirExists(folder) {
		return folder, nil
	}
	rel := filepath.Join(repoRoot, folder)
	if dirExists(rel) {
		return rel, nil
	}
	return "", &FolderNotFoundError{Folder: folder, Tried: []string{folder, rel}}
}

// checkMandatory requires at least one resolved stem to name a file
// directly inside each mandatory folder.
func checkMandatory(folders []string, repoRoot string, stems map[string]bool) error {
	for _, folder := range folders {
		dir, err := resolveFolder(folder, repoRoot)
		if err != nil {
			return err
		}
		inFolder, err := folderStems(dir)
		if err != nil {
			return fmt.Errorf("list mandatory folder: %w", err)
		}
		if len(intersect(inFolder, stems)) == 0 {
			return &ConstraintViolationError{Kind: ConstraintMandatory, Folder: dir}
		}
	}
	return nil
}

// checkExclusive allows at most one resolved stem per exclusive folder.
func checkExclusive(folders []string, repoRoot string, stems map[string]bool) error {
	for _, folder := range folders {
		dir, err := resolveFolder(folder, repoRoot)
		if err != nil {
			return err
		}
		inFolder, err := folderStems(dir)
		if err != nil {
			return fmt.Errorf("list exclusive folder: %w", err)
		}
		if both := intersect(inFolder, stems); len(both) > 1 {
			return &ConstraintViolationError{Kind: ConstraintExclusive, Folder: dir, Stems: both}
		}
	}
	return nil
}

// intersect returns the sorted keys present in both sets.
func intersect(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
