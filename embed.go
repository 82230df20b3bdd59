package main

import (
	"embed"
	"io/fs"
)

//go:embed frontend
var frontendFiles embed.FS

// getFrontendFS returns the status page files with the "frontend" prefix
// stripped, ready for http.FS.
func getFrontendFS() fs.FS {
	sub, err := fs.Sub(frontendFiles, "frontend")
	if err != nil {
		panic(err)
	}
	return sub
}
