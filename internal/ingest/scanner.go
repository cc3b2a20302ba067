package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileInfo describes an export file found under an import directory.
type FileInfo struct {
	Path  string
	Mtime int64
	Size  int64
}

// ScanDirs walks the import directories for .json export files. Missing
// directories are ignored; hidden directories are not descended into.
func ScanDirs(dirs ...string) ([]FileInfo, error) {
	var files []FileInfo
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		found, err := scanDir(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		files = append(files, found...)
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func scanDir(root string) ([]FileInfo, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	return files, err
}

// Paths returns the paths of files, in order.
func Paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
