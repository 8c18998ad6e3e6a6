package book

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/agentic-research/bpkit/internal/blueprint"
	"github.com/agentic-research/bpkit/internal/value"
)

// Loader reads entries written by an Assembler.
type Loader struct {
	FS     billy.Filesystem
	Logger *zap.Logger
}

// NewLoader returns a Loader reading from fsys. A nil logger discards
// warnings.
func NewLoader(fsys billy.Filesystem, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{FS: fsys, Logger: logger}
}

type child struct {
	path  string
	index uint64
	doc   value.Value
}

// Load reads the entry stored at path. A file is parsed as a single entry;
// a directory is reassembled into a book whose children are ordered by
// index.
func (l *Loader) Load(path string) (value.Value, error) {
	fi, err := l.FS.Stat(path)
	if err != nil {
		return value.Value{}, fmt.Errorf("load %s: %w", path, err)
	}
	if !fi.IsDir() {
		return l.readDoc(path)
	}

	entries, err := l.FS.ReadDir(path)
	if err != nil {
		return value.Value{}, fmt.Errorf("read directory %s: %w", path, err)
	}
	if !slices.ContainsFunc(entries, func(e os.FileInfo) bool { return e.Name() == ManifestName }) {
		return value.Value{}, fmt.Errorf("%s: %w", path, ErrMissingManifest)
	}

	manifest, err := l.readDoc(l.FS.Join(path, ManifestName))
	if err != nil {
		return value.Value{}, err
	}
	blueprints := manifest.Lookup(string(blueprint.KindBook), "blueprints")
	if blueprints.Kind() != value.KindArray || blueprints.Len() != 0 {
		return value.Value{}, fmt.Errorf("%s: %w", l.FS.Join(path, ManifestName), ErrManifestNotEmpty)
	}

	var children []child
	for _, e := range entries {
		if e.Name() == ManifestName {
			continue
		}
		childPath := l.FS.Join(path, e.Name())
		doc, err := l.Load(childPath)
		if err != nil {
			return value.Value{}, err
		}
		index, err := l.resolveIndex(childPath, e.Name(), &doc)
		if err != nil {
			return value.Value{}, err
		}
		children = append(children, child{path: childPath, index: index, doc: doc})
	}

	slices.SortStableFunc(children, func(a, b child) int {
		return cmp.Compare(a.index, b.index)
	})
	for i := 1; i < len(children); i++ {
		if children[i-1].index == children[i].index {
			return value.Value{}, &IndexError{
				Err:   ErrDuplicateIndex,
				Path:  children[i].path,
				Other: children[i-1].path,
				Index: children[i].index,
			}
		}
	}

	docs := make([]value.Value, len(children))
	for i, c := range children {
		docs[i] = c.doc
	}
	manifest.Get(string(blueprint.KindBook)).Set("blueprints", value.NewArray(docs...))
	return manifest, nil
}

func (l *Loader) readDoc(path string) (value.Value, error) {
	data, err := util.ReadFile(l.FS, path)
	if err != nil {
		return value.Value{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := value.Parse(string(data))
	if err != nil {
		return value.Value{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// resolveIndex places a child within its book. The index in the file name
// wins over the embedded one; either way a disagreement is only a warning.
func (l *Loader) resolveIndex(path, name string, doc *value.Value) (uint64, error) {
	declared, hasDeclared, err := declaredIndex(path, doc)
	if err != nil {
		return 0, err
	}
	fromName, hasName := nameIndex(name)

	switch {
	case hasName && hasDeclared:
		if fromName != declared {
			l.log().Warn("file name index differs from embedded index, using file name",
				zap.String("path", path),
				zap.Uint64("file_index", fromName),
				zap.Uint64("embedded_index", declared))
		}
		return fromName, nil
	case hasName:
		l.log().Warn("no embedded index, assuming file name index",
			zap.String("path", path),
			zap.Uint64("file_index", fromName))
		return fromName, nil
	case hasDeclared:
		return declared, nil
	}
	return 0, &IndexError{Err: ErrMissingIndex, Path: path}
}

// declaredIndex reads the top-level index field. Non-numeric fields are
// treated as absent.
func declaredIndex(path string, doc *value.Value) (uint64, bool, error) {
	raw := doc.Get("index")
	if raw.Kind() != value.KindNumber {
		return 0, false, nil
	}
	n, ok := raw.AsUint()
	if !ok {
		return 0, false, &IndexError{Err: ErrInvalidIndex, Path: path, Raw: raw.String()}
	}
	return n, true, nil
}

// nameIndex parses the decimal prefix of "<index> <name>".
func nameIndex(name string) (uint64, bool) {
	prefix, _, found := strings.Cut(name, " ")
	if !found {
		return 0, false
	}
	n, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (l *Loader) log() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}
