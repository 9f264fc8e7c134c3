package middleware

import (
	"net/http"
	"path"
	"strings"
)

const staticIndexFile = "index.html"

// Static serves GET and HEAD requests for files under dir. Requests that do not
// name a servable file fall through to next. Dotfiles are never served, and a
// directory is served only through its index.html.
func Static(dir string) func(http.Handler) http.Handler {
	root := http.Dir(dir)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			name := path.Clean("/" + r.URL.Path)
			if hasDotSegment(name) {
				next.ServeHTTP(w, r)
				return
			}

			f, err := root.Open(name)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if info.IsDir() {
				if !strings.HasSuffix(r.URL.Path, "/") {
					redirectToDir(w, r)
					return
				}
				index, err := root.Open(path.Join(name, staticIndexFile))
				if err != nil {
					next.ServeHTTP(w, r)
					return
				}
				defer index.Close()

				info, err = index.Stat()
				if err != nil || info.IsDir() {
					next.ServeHTTP(w, r)
					return
				}
				f = index
			}

			w.Header().Set("Cache-Control", "public, max-age=0")
			http.ServeContent(w, r, info.Name(), info.ModTime(), f)
		})
	}
}

func hasDotSegment(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func redirectToDir(w http.ResponseWriter, r *http.Request) {
	target := "/" + strings.TrimLeft(r.URL.Path, "/") + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
