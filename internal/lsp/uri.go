package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
)

// uriToPath converts a file:// URI to a local path. Other schemes yield "".
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	path := uri
	switch parsed.Scheme {
	case "":
	case "file":
		path = parsed.Path
	default:
		return ""
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	path = filepath.FromSlash(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// canonicalURI приводит file:// URI к одному виду, чтобы ключи карты документов совпадали.
// Прочие схемы (untitled: и т.п.) возвращаются как есть.
func canonicalURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "file:") {
		return uri
	}
	if path := uriToPath(uri); path != "" {
		return pathToURI(path)
	}
	return uri
}

// documentName is the path recorded in the FileSet for a document.
func documentName(uri string) string {
	if path := uriToPath(uri); path != "" {
		return path
	}
	return uri
}
