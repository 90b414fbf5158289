package http

import (
	"net/http"

	"github.com/microlearn/courseplayer/internal/course"
)

// ReloadCatalogHandler re-reads the tabular data files from disk so
// editors can publish changes without a restart.
func ReloadCatalogHandler(cat *course.Catalog, dataDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat.Reload(dataDir)
		writeJSON(w, map[string]interface{}{
			"reloaded": true,
			"modules":  len(cat.Modules()),
		})
	}
}
