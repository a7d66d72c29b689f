package text

// Chapter is one chapter as served by the text provider, in Hebrew and English.
type Chapter struct {
	Ref          string   `json:"ref"`
	HeRef        string   `json:"heRef"`
	Book         string   `json:"book"`
	Text         []string `json:"text"` // English, one entry per halakhah
	He           []string `json:"he"`   // Hebrew source, one entry per halakhah
	Next         string   `json:"next,omitempty"`
	Prev         string   `json:"prev,omitempty"`
	SectionNames []string `json:"sectionNames"`
	Lengths      []int    `json:"lengths"`
}

// Segment is a single numbered halakhah with markup removed.
type Segment struct {
	Number  int    `json:"number"`
	Hebrew  string `json:"hebrew"`
	English string `json:"english"`
}

// Index is a treatise table of contents.
type Index struct {
	Title      string   `json:"title"`
	HeTitle    string   `json:"heTitle"`
	Categories []string `json:"categories"`
	Schema     Schema   `json:"schema"`
}

type Schema struct {
	Nodes   []SchemaNode `json:"nodes,omitempty"`
	Lengths []int        `json:"lengths,omitempty"`
}

type SchemaNode struct {
	Title   string `json:"title"`
	HeTitle string `json:"heTitle"`
	Depth   int    `json:"depth"`
	Lengths []int  `json:"lengths,omitempty"`
}

// ChapterCount reports the number of chapters the index declares, 0 if it does not say.
func (idx Index) ChapterCount() int {
	if len(idx.Schema.Lengths) > 0 {
		return idx.Schema.Lengths[0]
	}
	return 0
}
