package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Category groups file extensions the metadata tool understands.
type Category struct {
	Name       string
	Extensions []string
}

// Categories lists the file types picked up when a directory is expanded.
var Categories = []Category{
	{Name: "Images", Extensions: []string{
		".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp", ".heic", ".heif",
		".raw", ".cr2", ".cr3", ".nef", ".arw", ".dng", ".orf", ".rw2", ".raf", ".srw",
	}},
	{Name: "Videos", Extensions: []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm", ".m4v", ".mpg", ".mpeg"}},
	{Name: "Audio", Extensions: []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a", ".opus", ".aiff", ".ape"}},
	{Name: "Documents", Extensions: []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".odt", ".ods"}},
	{Name: "Archives", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz"}},
}

// CategoryOf returns the category name for path, or "Other".
func CategoryOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for _, category := range Categories {
		for _, candidate := range category.Extensions {
			if ext == candidate {
				return category.Name
			}
		}
	}
	return "Other"
}

// CollectOptions controls directory expansion.
type CollectOptions struct {
	Recursive bool
	// Extensions restricts directory expansion; empty means every extension
	// in Categories.
	Extensions []string
}

// CollectFiles resolves the given paths to absolute file paths. Files are
// taken as given; directories expand to the known media/document files they
// contain. Hidden entries are skipped and duplicates dropped, first
// occurrence wins.
func CollectFiles(paths []string, opts CollectOptions) ([]string, error) {
	allowed := extensionSet(opts.Extensions)
	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, raw := range paths {
		abs, err := filepath.Abs(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("resolve path %q: %w", raw, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("path does not exist: %s", abs)
			}
			return nil, fmt.Errorf("inspect %s: %w", abs, err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		found, err := expandDir(abs, opts.Recursive, allowed)
		if err != nil {
			return nil, err
		}
		for _, path := range found {
			add(path)
		}
	}
	return out, nil
}

func expandDir(root string, recursive bool, allowed map[string]struct{}) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(path))]; ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan directory %s: %w", root, err)
	}
	sort.Strings(found)
	return found, nil
}

func extensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{})
	if len(extensions) == 0 {
		for _, category := range Categories {
			for _, ext := range category.Extensions {
				set[ext] = struct{}{}
			}
		}
		return set
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}
