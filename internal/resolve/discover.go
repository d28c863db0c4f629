package resolve

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ConfigExt is the extension of config files.
const ConfigExt = ".gin"

// BaseConfig is implicitly requested before every other config.
const BaseConfig = "base"

// SearchRoots resolves the base config folder and returns the roots configs
// are searched in: the folder itself, the repository root, then the working
// directory. The folder is tried relative to repoRoot first, then as given.
func SearchRoots(baseFolder, repoRoot string) ([]string, error) {
	rel := filepath.Join(repoRoot, baseFolder)
	folder := ""
	switch {
	case dirExists(rel):
		folder = rel
	case dirExists(baseFolder):
		folder = baseFolder
	default:
		return nil, &FolderNotFoundError{Folder: baseFolder, Tried: []string{rel, baseFolder}}
	}
	return []string{folder, repoRoot, "."}, nil
}

// Stem returns the file name of path without its final extension, NFC
// normalized so names from decomposing filesystems compare equal.
func Stem(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return norm.NFC.String(base)
}

// finder lists config files under search roots, walking each root at most
// once.
type finder struct {
	roots []string
	index map[string][]string
}

func newFinder(roots []string) *finder {
	return &finder{roots: roots, index: make(map[string][]string)}
}

// find returns the first config whose stem matches name's stem, searching
// roots in order.
func (f *finder) find(name string) (string, error) {
	stem := Stem(name)
	for _, root := range f.roots {
		for _, path := range f.files(root) {
			if Stem(path) == stem {
				return path, nil
			}
		}
	}
	return "", &ConfigNotFoundError{Name: name, Stem: stem, Roots: f.roots}
}

func (f *finder) files(root string) []string {
	if files, ok := f.index[root]; ok {
		return files
	}
	files := findFilesByExtension(root, ConfigExt)
	f.index[root] = files
	return files
}

// findFilesByExtension recursively lists files under root ending in ext, in
// lexical walk order. Unreadable directories are skipped.
func findFilesByExtension(root, ext string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	return files
}

// folderStems returns the stems of the regular files directly inside dir.
func folderStems(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	stems := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stems[Stem(e.Name())] = true
	}
	return stems, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
