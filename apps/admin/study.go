package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/rambam/core/study"
)

var todayFunc = (*study.Service).Today // mockable

func (cli *commandLine) today(w io.Writer, date string) error {
	var cs study.CycleState
	if date == "" {
		cs = todayFunc(cli.studySvc)
	} else {
		t, err := study.ParseDate(date)
		if err != nil {
			return err
		}
		cs = cli.studySvc.DailyStudy(t)
	}

	fmt.Fprintf(w, "%s · Cycle %d · Day %d/%d (%d%%)\n",
		study.FormatDate(cs.Date), cs.CycleNumber, cs.Day(), cs.CycleLength, cs.ProgressPercent)
	fmt.Fprintln(w, study.Label(cs))
	return nil
}

func (cli *commandLine) catalog(w io.Writer) error {
	cat := cli.studySvc.Catalog()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, div := range cat.Divisions() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d treatises\t%d chapters\n",
			div.Numeral, div.Name, div.HeName, div.SubDivisionCount(), div.TotalChapters())
	}
	fmt.Fprintf(tw, "\tTotal\t\t\t%d chapters\n", cat.ChapterCount())
	return tw.Flush()
}

func (cli *commandLine) auditInsights(ctx context.Context, w io.Writer) error {
	misaligned, err := cli.insightSvc.Misaligned(ctx, cli.studySvc.Scheduler())
	if err != nil {
		return errors.Wrap(err, "auditing insights")
	}
	if len(misaligned) == 0 {
		fmt.Fprintln(w, "All ranged insights match a day's portion.")
		return nil
	}

	fmt.Fprintf(w, "%d insight(s) never match a day at %d chapters per day:\n",
		len(misaligned), cli.studySvc.Scheduler().ChaptersPerDay())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, a := range misaligned {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.ID, a.RangeKey(), a.Title)
	}
	return tw.Flush()
}
