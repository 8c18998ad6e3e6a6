// Package book lays blueprint books out as directory trees and reads them
// back.
//
// A book with children becomes a directory holding book.json (the book
// with its blueprints array emptied) and one entry per child, named
// "<index> <name>". Every other entry becomes "<name>.json".
package book

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/agentic-research/bpkit/internal/blueprint"
	"github.com/agentic-research/bpkit/internal/value"
)

// ManifestName is the file holding a book's own fields.
const ManifestName = "book.json"

// DefaultIndent is the indentation of written JSON files.
const DefaultIndent = "  "

// fileExt is appended to the name of every entry stored as a file.
const fileExt = ".json"

// FileName returns the sanitized base name, without extension, under
// which e is stored. It leaves room for the extension within the file
// name length limit.
func FileName(e blueprint.Entry) string {
	name := e.Name()
	if n, ok := e.Index().AsNumber(); ok {
		name = n.String() + " " + name
	}
	return sanitize(name, maxNameBytes-len(fileExt))
}

// Assembler writes entries to a file system.
type Assembler struct {
	FS     billy.Filesystem
	Logger *zap.Logger
	Indent string
}

// NewAssembler returns an Assembler writing to fsys. A nil logger
// discards output.
func NewAssembler(fsys billy.Filesystem, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{FS: fsys, Logger: logger, Indent: DefaultIndent}
}

// Save writes doc under dir and returns the path of the file or directory
// it created. doc is consumed: a book's blueprints array is emptied.
//
// Existing files and directories are never overwritten. Entries written
// before a failure are left in place.
func (a *Assembler) Save(doc value.Value, dir string) (string, error) {
	entry, err := blueprint.Classify(&doc)
	if err != nil {
		return "", fmt.Errorf("save into %s: %w", dir, err)
	}
	name := FileName(entry)

	children := entry.Children()
	if children == nil || children.Len() == 0 {
		path := a.FS.Join(dir, name+fileExt)
		if err := a.writeFile(path, doc); err != nil {
			return "", err
		}
		return path, nil
	}

	path := a.FS.Join(dir, name)
	if err := checkChildIndexes(path, children); err != nil {
		return "", err
	}
	if err := a.mkdir(path); err != nil {
		return "", err
	}

	kids := *children
	entry.Payload.Set("blueprints", value.NewArray())
	for _, child := range kids.Items() {
		if _, err := a.Save(*child, path); err != nil {
			return "", err
		}
	}

	if err := a.writeFile(a.FS.Join(path, ManifestName), doc); err != nil {
		return "", err
	}
	return path, nil
}

// checkChildIndexes requires every child of a book to carry a
// non-negative integer index.
func checkChildIndexes(dir string, children *value.Value) error {
	for i, child := range children.Items() {
		at := fmt.Sprintf("%s child %d", dir, i)
		_, ok, err := declaredIndex(at, child)
		if err != nil {
			return err
		}
		if !ok {
			return &IndexError{Err: ErrMissingIndex, Path: at}
		}
	}
	return nil
}

func (a *Assembler) mkdir(path string) error {
	if _, err := a.FS.Stat(path); err == nil {
		return fmt.Errorf("create book directory %s: %w", path, ErrFileAlreadyExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := a.FS.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create book directory %s: %w", path, err)
	}
	return nil
}

func (a *Assembler) writeFile(path string, doc value.Value) error {
	data, err := doc.MarshalIndent("", a.Indent)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", path, err)
	}

	f, err := a.FS.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("create %s: %w", path, ErrFileAlreadyExists)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	_, err = w.Write(data)
	if err == nil {
		err = w.WriteByte('\n')
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	a.log().Info("saved", zap.String("path", path))
	return nil
}

func (a *Assembler) log() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
