package curriculum

import (
	"bytes"
	_ "embed"
)

//go:embed data/mishneh_torah.yaml
var mishnehTorah []byte

// Default loads the bundled Mishneh Torah catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(mishnehTorah))
}
