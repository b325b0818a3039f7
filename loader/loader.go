// Package loader discovers grug mod script files on disk: the thin,
// explicitly out-of-scope external collaborator that walks a mods/ root,
// groups .grug files by owning mod, and extracts the PascalCase entity-type
// tag each file name carries, generalizing the teacher's plain .cdt file
// walk to grug's mod/entity-type layout.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	casing "github.com/grug-lang/grug/internal/util/strings"
)

// ScriptFile is one discovered .grug file: which mod it belongs to, its
// path on disk, and the entity type its file name selects in mod_api.json.
type ScriptFile struct {
	Mod        string
	Path       string
	EntityType string
}

// Discover walks modsDirPath, treating each top-level directory as a mod and
// every .grug file beneath it as a script file. A file name must match
// "<anything>-<EntityType>.grug" with EntityType in PascalCase; a file that
// does not match this shape is a fatal discovery error, per the mod loader's
// own invariant, not a runtime one a script's author could trigger.
func Discover(modsDirPath string) ([]ScriptFile, error) {
	var files []ScriptFile

	entries, err := os.ReadDir(modsDirPath)
	if err != nil {
		return nil, fmt.Errorf("reading mods directory %q: %w", modsDirPath, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		modName := entry.Name()
		modDir := filepath.Join(modsDirPath, modName)
		err := filepath.WalkDir(modDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".grug" {
				return nil
			}
			entityType, err := entityTypeFromFileName(d.Name())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			files = append(files, ScriptFile{Mod: modName, Path: path, EntityType: entityType})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// entityTypeFromFileName extracts EntityType from "<anything>-<EntityType>.grug".
func entityTypeFromFileName(name string) (string, error) {
	base := strings.TrimSuffix(name, ".grug")
	idx := strings.LastIndex(base, "-")
	if idx < 0 || idx == len(base)-1 {
		return "", fmt.Errorf("file name %q must match \"<anything>-<EntityType>.grug\"", name)
	}
	entityType := base[idx+1:]
	if !casing.IsPascalCase(entityType) {
		return "", fmt.Errorf("entity type %q in file name %q must be PascalCase", entityType, name)
	}
	return entityType, nil
}
