// Package static — ressources statiques embarquées du dashboard.
// CSS et JS sont intégrés au binaire via //go:embed et servis sous
// /static/*.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed css/*.css js/*.js
var content embed.FS

// FileSystem retourne le http.FileSystem servi sous /static/*.
func FileSystem() http.FileSystem {
	return http.FS(content)
}

// FS retourne le fs.FS pour l'accès direct aux fichiers embarqués.
func FS() fs.FS {
	return content
}
