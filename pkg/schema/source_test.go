package schema

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-auditform/pkg/form"
)

func TestAuditSource(t *testing.T) {
	cases := []struct {
		name     string
		root     string
		kind     SourceKind
		location string
	}{
		{name: "bundled", root: "", kind: SourceKindFS, location: "audits/shift-log.json"},
		{name: "remote", root: "https://cdn.example.com/assets/", kind: SourceKindURL, location: "https://cdn.example.com/assets/audits/shift-log.json"},
		{name: "directory", root: "/srv/forms", kind: SourceKindFile, location: filepath.Join("/srv/forms", "audits", "shift-log.json")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src, err := AuditSource(tc.root, " shift-log ")
			if err != nil {
				t.Fatalf("AuditSource: %v", err)
			}
			if src.Kind() != tc.kind || src.Location() != tc.location {
				t.Fatalf("got %s %q", src.Kind(), src.Location())
			}
		})
	}
}

func TestAuditSource_RejectsBadIDs(t *testing.T) {
	for _, id := range []string{"", "   ", "../secret", "a/b", `a\b`} {
		if _, err := AuditSource("", id); err == nil {
			t.Fatalf("%q: expected error", id)
		}
	}
}

func TestDecodeDocument(t *testing.T) {
	raw := []byte("id: demo\ntitle: Demo\nsections: []\n")
	if _, err := DecodeDocument(nil, raw, form.FormatYAML); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := DecodeDocument(SourceFromFS("a.json"), nil, form.FormatJSON); err == nil {
		t.Fatalf("expected error for empty payload")
	}

	doc, err := DecodeDocument(SourceFromFS("audits/demo.yaml"), raw, form.FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f := doc.Form(); f.ID != "demo" || f.Title != "Demo" {
		t.Fatalf("unexpected form %+v", f)
	}
	if doc.Location() != "audits/demo.yaml" {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestSourceFromURL_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	SourceFromURL("::not a url")
}
