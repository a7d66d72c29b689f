package curriculum

// SubDivision is a treatise (Hilchot): the unit the Text Provider is queried by.
type SubDivision struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	HeName   string `json:"he_name" yaml:"he_name"`
	Ref      string `json:"ref" yaml:"ref"` // exact Sefaria reference, e.g. "Mishneh Torah, Sabbath"
	Chapters int    `json:"chapters" yaml:"chapters"`
}

// Division is a top-level book (Sefer) of the work.
type Division struct {
	ID           string        `json:"id" yaml:"id"`
	Numeral      string        `json:"numeral" yaml:"numeral"`
	Name         string        `json:"name" yaml:"name"`
	HeName       string        `json:"he_name" yaml:"he_name"`
	Color        string        `json:"color" yaml:"color"`
	SubDivisions []SubDivision `json:"sub_divisions" yaml:"sub_divisions"`
}

// TotalChapters sums the chapter counts of all of d's sub-divisions.
func (d Division) TotalChapters() int {
	var total int
	for _, sd := range d.SubDivisions {
		total += sd.Chapters
	}
	return total
}

func (d Division) SubDivisionCount() int { return len(d.SubDivisions) }

// Entry is a SubDivision together with its owning Division.
type Entry struct {
	Division    Division
	SubDivision SubDivision
}
