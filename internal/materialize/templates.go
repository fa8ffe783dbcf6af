package materialize

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed all:cfg
var embedded embed.FS

// DefaultSource labels the embedded template set in log messages.
const DefaultSource = "cfg"

// Templates returns the embedded template set, rooted at the template directory.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "cfg")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplatesFrom returns dir as a template set, or the embedded set when dir
// is empty. The second value labels the source in log messages.
func TemplatesFrom(dir string) (fs.FS, string, error) {
	if dir == "" {
		return Templates(), DefaultSource, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, "", err
	}
	if !info.IsDir() {
		return nil, "", &fs.PathError{Op: "open", Path: dir, Err: fs.ErrInvalid}
	}
	return os.DirFS(dir), dir, nil
}
