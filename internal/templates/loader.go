package templates

import (
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// fsLoader resolves template names relative to the root of an fs.FS.
// Includes and extends always name templates from the root.
type fsLoader struct {
	fsys fs.FS
}

func (l *fsLoader) Abs(_, name string) string {
	return cleanName(name)
}

func (l *fsLoader) Get(name string) (io.Reader, error) {
	return l.fsys.Open(cleanName(name))
}

func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// listTemplates returns every regular file in fsys, sorted.
func listTemplates(fsys fs.FS) ([]string, error) {
	var names []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		names = append(names, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
