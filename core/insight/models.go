package insight

import (
	"fmt"
	"time"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Content types
const (
	TypeDvarTorah    = "dvar_torah"
	TypeDailyInsight = "daily_insight"
)

// Body formats
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Article is an editorial piece from the content store.
// StartChapter and EndChapter are 0 when the article is not tied to a chapter range.
type Article struct {
	ID           string    `json:"id"`
	ContentType  string    `json:"content_type"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	BodyFormat   string    `json:"body_format"`
	Summary      string    `json:"summary,omitempty"`
	Hook         string    `json:"hook,omitempty"`
	Status       string    `json:"status"`
	StudyDate    string    `json:"rambam_date,omitempty"`     // YYYY-MM-DD
	Chapters     string    `json:"rambam_chapters,omitempty"` // display label, e.g. "Sabbath 4-6"
	Sefer        string    `json:"sefer,omitempty"`
	Hilchot      string    `json:"hilchot,omitempty"`
	TreatiseID   string    `json:"treatise_id,omitempty"`
	StartChapter int       `json:"start_chapter,omitempty"`
	EndChapter   int       `json:"end_chapter,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Source       string    `json:"source,omitempty"`
	MediaURL     string    `json:"media_url,omitempty"`
	MediaType    string    `json:"media_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	PublishedAt  time.Time `json:"published_at"`
}

func (a Article) IsPublished() bool { return a.Status == StatusPublished }

// HasRange reports whether the article is keyed to a chapter range of its treatise.
func (a Article) HasRange() bool {
	return a.TreatiseID != "" && a.StartChapter > 0 && a.EndChapter >= a.StartChapter
}

// Covers reports whether chapter falls in the article's range.
func (a Article) Covers(chapter int) bool {
	return a.HasRange() && a.StartChapter <= chapter && chapter <= a.EndChapter
}

// RangeKey is "treatise:start-end", or "" for articles without a range.
func (a Article) RangeKey() string {
	if !a.HasRange() {
		return ""
	}
	return RangeKey(a.TreatiseID, a.StartChapter, a.EndChapter)
}

func RangeKey(treatiseID string, start, end int) string {
	return fmt.Sprintf("%s:%d-%d", treatiseID, start, end)
}

type (
	Section struct {
		Label   string `json:"label,omitempty"`
		Heading string `json:"heading"`
		Content string `json:"content"` // HTML
	}

	// Insight is an article shaped for the chapter reader.
	Insight struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Subtitle  string    `json:"subtitle"`
		Sections  []Section `json:"sections"`
		MediaURL  string    `json:"media_url,omitempty"`
		MediaType string    `json:"media_type,omitempty"`
	}
)

// Insight renders a as reader sections: the hook, then the summary, then the body.
// Empty parts are skipped.
func (a Article) Insight() Insight {
	sections := make([]Section, 0, 3)
	if a.Hook != "" {
		sections = append(sections, Section{Label: "Hook", Heading: "Opening Thought", Content: "<p>" + a.Hook + "</p>"})
	}
	if a.Summary != "" {
		sections = append(sections, Section{Label: "Summary", Heading: "Overview", Content: "<p>" + a.Summary + "</p>"})
	}
	if a.Body != "" {
		sections = append(sections, Section{Label: "The Teaching", Heading: a.Title, Content: a.Body})
	}

	subtitle := "Daily Rambam"
	if a.Chapters != "" {
		subtitle = "Daily Rambam: " + a.Chapters
	}
	return Insight{
		ID:        a.ID,
		Title:     a.Title,
		Subtitle:  subtitle,
		Sections:  sections,
		MediaURL:  a.MediaURL,
		MediaType: a.MediaType,
	}
}

// QueryFilter is ANDed field by field; zero fields are ignored.
type QueryFilter struct {
	Status      string
	ContentType string
	// TreatiseID matches treatise_id. With TreatiseName set, rows lacking a treatise_id
	// also match when their hilchot contains TreatiseName, ignoring case.
	TreatiseID   string
	TreatiseName string
	Chapter      int // range contains Chapter
	StartChapter int // exact range, with EndChapter
	EndChapter   int
	RangedOnly   bool
	Limit        int
}

// OrderingFields maps the orderable API fields to their columns.
var OrderingFields = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"published_at": "published_at",
	"title":        "title",
}
