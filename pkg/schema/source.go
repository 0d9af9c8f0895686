package schema

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Source identifies where an audit form document originated so loaders can
// operate on files, fs.FS entries, or URLs without leaking implementation
// details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("schema: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// AuditsDir is the directory, relative to an asset root, holding audit form
// documents.
const AuditsDir = "audits"

// AuditPath returns the slash-separated relative location of an audit form
// document: audits/<auditId>.json.
func AuditPath(auditID string) string {
	return path.Join(AuditsDir, strings.TrimSpace(auditID)+".json")
}

// AuditSource resolves <root>/audits/<auditId>.json against an asset root.
// HTTP(S) roots yield URL sources, an empty root addresses the bundled fs.FS,
// anything else is treated as a directory on disk.
func AuditSource(root, auditID string) (Source, error) {
	id := strings.TrimSpace(auditID)
	if id == "" {
		return nil, fmt.Errorf("schema: audit id is required")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("schema: invalid audit id %q", auditID)
	}

	root = strings.TrimSpace(root)
	switch {
	case root == "":
		return SourceFromFS(AuditPath(id)), nil
	case strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://"):
		joined, err := url.JoinPath(root, AuditsDir, id+".json")
		if err != nil {
			return nil, fmt.Errorf("schema: asset root %q: %w", root, err)
		}
		return SourceFromURL(joined), nil
	default:
		return SourceFromFile(filepath.Join(root, filepath.FromSlash(AuditPath(id)))), nil
	}
}
