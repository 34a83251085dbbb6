package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// Format preference when one stem exists in several encodings.
var extRank = map[string]int{
	".png":  4,
	".tga":  3,
	".webp": 2,
	".jpg":  1,
	".jpeg": 1,
}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks dir for supported image files. A missing or empty dir
// yields an empty index; bodies then render with flat colours.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extRank[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if existing, exists := idx.entries[stem]; exists {
			if extRank[strings.ToLower(filepath.Ext(existing))] >= rank {
				return nil
			}
		}
		idx.entries[stem] = path
		return nil
	})
	return idx
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
// Names may carry a directory or extension; only the stem is matched.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	if idx == nil {
		return "", false
	}
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}
