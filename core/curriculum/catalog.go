package curriculum

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is the cause of every catalog integrity failure.
// Use errors.Cause to check: errors.Cause(err) == curriculum.ErrInvalidCatalog
var ErrInvalidCatalog = errors.New("invalid catalog")

// ErrUnknownTreatise is returned by lookups of a sub-division id the catalog does not hold.
var ErrUnknownTreatise = errors.New("unknown treatise")

type position struct {
	division, subDivision int
}

// Catalog is the canonical, immutable structure of the work being studied.
// It is safe for concurrent use.
type Catalog struct {
	divisions []Division
	index     map[string]position // sub-division ID -> position
}

// New validates divisions and returns a Catalog holding its own copy of them.
func New(divisions []Division) (*Catalog, error) {
	if len(divisions) == 0 {
		return nil, errors.Wrap(ErrInvalidCatalog, "no divisions")
	}

	c := &Catalog{
		divisions: make([]Division, 0, len(divisions)),
		index:     make(map[string]position),
	}
	divIDs := make(map[string]bool, len(divisions))
	divOrder := make([]string, 0, len(divisions))
	for i, div := range divisions {
		div.ID = strings.TrimSpace(div.ID)
		if div.ID == "" {
			return nil, errors.Wrapf(ErrInvalidCatalog, "division #%d has no id", i+1)
		}
		if divIDs[div.ID] {
			return nil, errors.Wrapf(ErrInvalidCatalog, "duplicate division id %q", div.ID)
		}
		divIDs[div.ID] = true
		divOrder = append(divOrder, div.ID)
		if len(div.SubDivisions) == 0 {
			return nil, errors.Wrapf(ErrInvalidCatalog, "division %q has no sub-divisions", div.ID)
		}

		subs := make([]SubDivision, 0, len(div.SubDivisions))
		for j, sd := range div.SubDivisions {
			sd.ID = strings.TrimSpace(sd.ID)
			if sd.ID == "" {
				return nil, errors.Wrapf(ErrInvalidCatalog, "division %q: sub-division #%d has no id", div.ID, j+1)
			}
			if sd.Chapters <= 0 {
				return nil, errors.Wrapf(ErrInvalidCatalog, "sub-division %q: chapter count %d", sd.ID, sd.Chapters)
			}
			if pos, ok := c.index[sd.ID]; ok {
				return nil, errors.Wrapf(ErrInvalidCatalog, "duplicate sub-division id %q (in %q and %q)",
					sd.ID, divOrder[pos.division], div.ID)
			}
			c.index[sd.ID] = position{division: i, subDivision: j}
			subs = append(subs, sd)
		}
		div.SubDivisions = subs
		c.divisions = append(c.divisions, div)
	}
	return c, nil
}

type catalogFile struct {
	Divisions []Division `yaml:"divisions"`
}

// Load decodes a YAML catalog from r and validates it.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding catalog")
	}
	return New(file.Divisions)
}

// Divisions returns the divisions in canonical reading order.
func (c *Catalog) Divisions() []Division {
	divs := make([]Division, len(c.divisions))
	for i, div := range c.divisions {
		div.SubDivisions = append([]SubDivision(nil), div.SubDivisions...)
		divs[i] = div
	}
	return divs
}

// Division returns the division with the given ID.
func (c *Catalog) Division(id string) (Division, bool) {
	for _, div := range c.divisions {
		if div.ID == id {
			return div, true
		}
	}
	return Division{}, false
}

// FindSubDivision returns the sub-division with the given ID and its owning division.
// ok is false when no sub-division matches; callers routinely probe optional IDs.
func (c *Catalog) FindSubDivision(id string) (div Division, sd SubDivision, ok bool) {
	pos, ok := c.index[id]
	if !ok {
		return Division{}, SubDivision{}, false
	}
	div = c.divisions[pos.division]
	return div, div.SubDivisions[pos.subDivision], true
}

// SubDivisions returns every sub-division in reading order, each with its division.
func (c *Catalog) SubDivisions() []Entry {
	entries := make([]Entry, 0, len(c.index))
	for _, div := range c.divisions {
		for _, sd := range div.SubDivisions {
			entries = append(entries, Entry{Division: div, SubDivision: sd})
		}
	}
	return entries
}

// TotalChapters returns the chapter total of one division, or 0 if it does not exist.
func (c *Catalog) TotalChapters(divisionID string) int {
	div, ok := c.Division(divisionID)
	if !ok {
		return 0
	}
	return div.TotalChapters()
}

// ChapterCount returns the sum of chapter counts across the whole catalog.
func (c *Catalog) ChapterCount() int {
	var total int
	for _, div := range c.divisions {
		total += div.TotalChapters()
	}
	return total
}
