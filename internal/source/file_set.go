package source

import (
	"os"
	"path/filepath"
)

// FileSet owns the files of one run and resolves spans against them.
// It is not safe for concurrent use; the driver keeps one per file.
type FileSet struct {
	files []File
}

func NewFileSet() *FileSet { return &FileSet{} }

// Add registers content under path and returns its id. Adding the same path
// twice yields two distinct files.
func (fs *FileSet) Add(path string, content []byte) FileID {
	id := FileID(toOffset(len(fs.files)))
	fs.files = append(fs.files, newFile(id, filepath.ToSlash(filepath.Clean(path)), content))
	return id
}

// AddVirtual is Add for content that did not come from disk.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	id := fs.Add(name, content)
	fs.files[id].Virtual = true
	return id
}

// Load reads path from disk and adds it unchanged.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fs.Add(path, content), nil
}

func (fs *FileSet) Get(id FileID) *File { return &fs.files[id] }

// Resolve turns both ends of a span into positions.
func (fs *FileSet) Resolve(sp Span) (start, end LineCol) {
	f := fs.Get(sp.File)
	return f.Position(sp.Start), f.Position(sp.End)
}
