package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
)

func (a *App) AddTask(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	name, err := getSimpleText(a.reader, "Task name", a.out)
	if err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, "Status (pending, in progress, completed, canceled; empty for pending)", a.out)
	if err != nil {
		return err
	}

	t, err := a.api.CreateTask(ctx, name, status)
	if err != nil {
		return sessionErr(err)
	}
	fmt.Fprintf(a.out, "Task %s created.\n", t.ID)
	return nil
}

func (a *App) ListTasks(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	list, err := a.api.ListTasks(ctx)
	if err != nil {
		return sessionErr(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tasks yet.")
		return nil
	}

	printTasks(a.out, list)
	return nil
}

func (a *App) ShowTask(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	t, err := a.api.GetTask(ctx, id)
	if err != nil {
		return sessionErr(err)
	}

	fmt.Fprintf(a.out, "ID:      %s\nName:    %s\nStatus:  %s\nCreated: %s\nUpdated: %s\n",
		t.ID, t.Name, t.Status, t.CreatedAt.Format("2006-01-02 15:04"), t.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}

// UpdateTask prompts for a new name and status; empty answers keep the
// current value.
func (a *App) UpdateTask(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	name, err := getSimpleText(a.reader, "New name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, "New status (empty to keep)", a.out)
	if err != nil {
		return err
	}

	var upd api.TaskUpdate
	if name != "" {
		upd.Name = &name
	}
	if status != "" {
		upd.Status = &status
	}
	if upd.Name == nil && upd.Status == nil {
		fmt.Fprintln(a.out, "Nothing to update.")
		return nil
	}

	t, err := a.api.UpdateTask(ctx, id, upd)
	if err != nil {
		return sessionErr(err)
	}
	fmt.Fprintf(a.out, "Task %s updated: %s [%s]\n", t.ID, t.Name, t.Status)
	return nil
}

func (a *App) DeleteTask(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	t, err := a.api.DeleteTask(ctx, id)
	if err != nil {
		return sessionErr(err)
	}
	fmt.Fprintf(a.out, "Task %s deleted.\n", t.ID)
	return nil
}

// ClearTasks deletes every task after a y/N confirmation.
func (a *App) ClearTasks(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	answer, err := getSimpleText(a.reader, "Delete ALL tasks? (y/N)", a.out)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	n, err := a.api.DeleteAllTasks(ctx)
	if err != nil {
		return sessionErr(err)
	}
	fmt.Fprintf(a.out, "%d task(s) deleted.\n", n)
	return nil
}

func printTasks(w io.Writer, list []api.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tNAME")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Status, t.Name)
	}
	_ = tw.Flush()
}
