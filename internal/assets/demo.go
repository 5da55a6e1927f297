package assets

import (
	"embed"
	"io/fs"
)

//go:embed demo
var demoFS embed.FS

// Demo returns the embedded demo set: models/paladin.yaml and
// clips/{idle,run,walk,jump,attack}.yaml.
func Demo() fs.FS {
	sub, err := fs.Sub(demoFS, "demo")
	if err != nil {
		panic(err) // "demo" is a literal directory in the embed pattern
	}
	return sub
}
