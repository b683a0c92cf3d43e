package api

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// newSPAHandler serves files from dir. Unknown paths get index.html so the
// client-side router can handle them.
func newSPAHandler(dir string) (http.HandlerFunc, error) {
	staticDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static path: %w", err)
	}
	index := filepath.Join(staticDir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := path.Clean("/" + r.URL.Path)
		if urlPath == "/" {
			http.ServeFile(w, r, index)
			return
		}

		filePath := filepath.Join(staticDir, filepath.FromSlash(urlPath))
		info, err := os.Stat(filePath)
		if err != nil || info.IsDir() {
			http.ServeFile(w, r, index)
			return
		}
		http.ServeFile(w, r, filePath)
	}, nil
}

const docsPage = `<!DOCTYPE html>
<html>
<head>
    <title>MyFishingDiary API</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body>
    <script id="api-reference" data-url="/api/swagger.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference@1.44.16/dist/browser/standalone.min.js"></script>
</body>
</html>`

func serveDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, docsPage)
}
