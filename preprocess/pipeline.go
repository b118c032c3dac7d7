package preprocess

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileResolver implements IncludeResolver against the filesystem: quoted
// includes resolve relative to the including file's own directory first,
// then fall through the search path; angle-bracket includes only search
// the path (§4.D's internal/external distinction).
type FileResolver struct {
	SourceDir  string
	SearchPath []string
}

// NewFileResolver creates a resolver rooted at sourceDir with an
// additional search path for angle-bracket includes.
func NewFileResolver(sourceDir string, searchPath []string) *FileResolver {
	return &FileResolver{SourceDir: sourceDir, SearchPath: searchPath}
}

func (r *FileResolver) ResolveInternal(path string) ([]byte, string, error) {
	if filepath.IsAbs(path) {
		content, err := os.ReadFile(path) // #nosec G304 -- user-provided include path
		return content, path, err
	}
	candidate := filepath.Join(r.SourceDir, path)
	if content, err := os.ReadFile(candidate); err == nil { // #nosec G304
		return content, candidate, nil
	}
	return r.ResolveExternal(path)
}

func (r *FileResolver) ResolveExternal(path string) ([]byte, string, error) {
	for _, dir := range r.SearchPath {
		candidate := filepath.Join(dir, path)
		if content, err := os.ReadFile(candidate); err == nil { // #nosec G304
			return content, candidate, nil
		}
	}
	return nil, "", fmt.Errorf("include file not found in search path: %s", path)
}

// Options configures a top-level preprocessing run.
type Options struct {
	// Defines are object-like macros the driver supplies up front (the
	// equivalent of a `-D` command-line flag).
	Defines map[string]string
	// SearchPath is consulted for `<...>` includes and as a fallback for
	// `"..."` includes not found beside the source file.
	SearchPath []string
}

// ProcessFile reads filePath, preprocesses it, and returns the expanded
// text alongside the accumulated diagnostics. This is the package's
// recommended entry point.
func ProcessFile(filePath string, opts Options) (string, *ErrorList, error) {
	content, err := os.ReadFile(filePath) // #nosec G304 -- user-provided source path
	if err != nil {
		return "", nil, err
	}

	resolver := NewFileResolver(filepath.Dir(filePath), opts.SearchPath)
	p := New(resolver)
	for name, body := range opts.Defines {
		p.Define(name, body)
	}

	out := p.ProcessFile(filepath.Base(filePath), content)
	return out, p.Errors, nil
}
