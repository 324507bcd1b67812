package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
)

func printSummary(out io.Writer, resp *dto.GenerateTimetableResponse) {
	fmt.Fprintf(out, "run %s (%s)\n", resp.RunID, resp.Source)
	fmt.Fprintln(out, resp.Summary.Message)

	if len(resp.Result.Scheduled) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CLASS\tSUBJECT\tTEACHER\tROOM\tDAY\tTIME")
		for _, c := range resp.Result.Scheduled {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s-%s\n", c.ClassID, c.Subject, c.TeacherName, c.Room, c.Day, c.Start.Format("15:04"), c.End.Format("15:04"))
		}
		_ = w.Flush()
	}

	if len(resp.Result.Unscheduled) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Unscheduled:")
		for _, u := range resp.Result.Unscheduled {
			fmt.Fprintf(out, "  %s: %s\n", u.ClassID, u.Reason.Message())
		}
	}
}

func printDays(out io.Writer, title string, days []dto.DayTimetable) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, title)
	if len(days) == 0 {
		fmt.Fprintln(out, "  no classes")
		return
	}
	for _, day := range days {
		fmt.Fprintf(out, "  %s\n", day.Day)
		for _, c := range day.Classes {
			fmt.Fprintf(out, "    %s  %s  %s (%s)\n", slotLabel(c.Slot()), c.Subject, c.TeacherName, c.Room)
		}
	}
}

func slotLabel(slot models.TimeSlot) string {
	return slot.Start.Format("15:04") + "-" + slot.End.Format("15:04")
}
