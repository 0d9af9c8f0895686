package auditform

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-auditform/pkg/schema"
)

//go:embed assets/audits/*.json
var embeddedAssets embed.FS

// AssetsFS exposes the bundled audit form descriptions laid out as
// audits/<auditId>.json, the same shape a remote asset root serves.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(auditform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// BundledAudits lists the ids of the bundled descriptions, sorted.
func BundledAudits() []string {
	entries, err := fs.ReadDir(AssetsFS(), schema.AuditsDir)
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids
}
