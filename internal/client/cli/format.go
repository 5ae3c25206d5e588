package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
)

func formatID(id int64) string {
	return "#" + strconv.FormatInt(id, 10)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func printTasks(w io.Writer, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", checkbox(t.Completed), formatID(t.ID), t.Title)
	}
	tw.Flush()
}

func printTask(w io.Writer, t models.Task) {
	fmt.Fprintf(w, "%s %s %s\n", checkbox(t.Completed), formatID(t.ID), t.Title)
	if t.Description != "" {
		fmt.Fprintln(w, t.Description)
	}
	fmt.Fprintln(w, "Created:  ", t.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintln(w, "Updated:  ", t.UpdatedAt.Local().Format(time.DateTime))
	if t.CompletedAt != nil {
		fmt.Fprintln(w, "Completed:", t.CompletedAt.Local().Format(time.DateTime))
	}
}

func printCounts(w io.Writer, c models.Counts) {
	fmt.Fprintf(w, "Total: %d, completed: %d, pending: %d\n", c.Total, c.Completed, c.Pending)
}
