package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/rambam/core/insight"
	appfs "github.com/trezcool/rambam/fs"
)

type (
	seedFile struct {
		Insights []seedInsight `yaml:"insights"`
	}

	seedInsight struct {
		ID        string            `yaml:"id"`
		Treatise  string            `yaml:"treatise"`
		Start     int               `yaml:"start"`
		End       int               `yaml:"end"`
		Title     string            `yaml:"title"`
		Subtitle  string            `yaml:"subtitle"`
		MediaURL  string            `yaml:"media_url"`
		MediaType string            `yaml:"media_type"`
		Sections  []insight.Section `yaml:"sections"`
	}
)

func decodeSeeds(r io.Reader) ([]seedInsight, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding insight seeds")
	}
	for i, s := range file.Insights {
		if s.Treatise == "" || s.Start < 1 || s.End < s.Start {
			return nil, errors.Errorf("insight seed #%d: invalid range %q", i+1, insight.RangeKey(s.Treatise, s.Start, s.End))
		}
		if s.Title == "" || len(s.Sections) == 0 {
			return nil, errors.Errorf("insight seed %s: title and sections are required", insight.RangeKey(s.Treatise, s.Start, s.End))
		}
	}
	return file.Insights, nil
}

// article renders the sections into an HTML body; the hook section, if any, also fills Hook.
func (s seedInsight) article(sefer, hilchot string, now time.Time) insight.Article {
	var body, hook strings.Builder
	for _, sec := range s.Sections {
		if sec.Label != "" {
			fmt.Fprintf(&body, "<section data-label=%q>\n", sec.Label)
		} else {
			body.WriteString("<section>\n")
		}
		fmt.Fprintf(&body, "<h2>%s</h2>\n%s</section>\n", sec.Heading, sec.Content)
		if strings.EqualFold(sec.Label, "hook") && hook.Len() == 0 {
			hook.WriteString(sec.Heading)
		}
	}
	return insight.Article{
		ID:           s.ID,
		ContentType:  insight.TypeDailyInsight,
		Title:        s.Title,
		Body:         body.String(),
		BodyFormat:   insight.FormatHTML,
		Hook:         hook.String(),
		Status:       insight.StatusPublished,
		Chapters:     strings.TrimPrefix(s.Subtitle, "Daily Rambam: "),
		Sefer:        sefer,
		Hilchot:      hilchot,
		TreatiseID:   s.Treatise,
		StartChapter: s.Start,
		EndChapter:   s.End,
		Source:       "seed",
		MediaURL:     s.MediaURL,
		MediaType:    s.MediaType,
		CreatedAt:    now,
		PublishedAt:  now,
	}
}

// importInsights stores the seeds of path (the bundled seeds if empty).
// Ranges that already have a published insight are skipped.
func (cli *commandLine) importInsights(ctx context.Context, w io.Writer, path string) error {
	var (
		r   io.ReadCloser
		err error
	)
	if path == "" {
		r, err = appfs.FS.Open(appfs.InsightSeeds)
	} else {
		r, err = os.Open(path)
	}
	if err != nil {
		return errors.Wrap(err, "opening insight seeds")
	}
	defer func() { _ = r.Close() }()

	seeds, err := decodeSeeds(r)
	if err != nil {
		return err
	}

	var imported, skipped int
	cat := cli.studySvc.Catalog()
	for _, s := range seeds {
		key := insight.RangeKey(s.Treatise, s.Start, s.End)
		div, sd, ok := cat.FindSubDivision(s.Treatise)
		if !ok {
			return errors.Errorf("insight seed %s: unknown treatise", key)
		}
		if s.End > sd.Chapters {
			return errors.Errorf("insight seed %s: %s has %d chapters", key, sd.Name, sd.Chapters)
		}

		_, err := cli.insightSvc.ForRange(ctx, s.Treatise, s.Start, s.End)
		switch {
		case err == nil:
			skipped++
			fmt.Fprintf(w, "skipped %s (already published)\n", key)
			continue
		case errors.Cause(err) != insight.ErrNotFound:
			return errors.Wrapf(err, "looking up %s", key)
		}

		a, err := cli.insightSvc.Create(ctx, s.article(div.Name, sd.Name, time.Now().UTC()))
		if err != nil {
			return errors.Wrapf(err, "importing %s", key)
		}
		imported++
		fmt.Fprintf(w, "imported %s as %s\n", key, a.ID)
	}
	fmt.Fprintf(w, "%d imported, %d skipped\n", imported, skipped)
	return nil
}
