package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophnotes/internal/filex"
	"github.com/dmitrijs2005/gophnotes/internal/netx"
)

const (
	timeLayout = "2006-01-02 15:04"
	exportDir  = "exports"
)

// Seams for the export download.
var (
	downloadExport  = netx.DownloadFromPresignedURL
	ensureExportDir = func() (string, error) { return filex.EnsureSubDir(exportDir) }
)

// View prints the profile and the list of notes.
func (a *App) View(ctx context.Context) error {
	p, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}

	if u := p.User; u != nil {
		fmt.Fprintf(a.out, "%s %s <%s> (%s)\n", u.FirstName, u.LastName, u.Email, u.Username)
	}

	if len(p.Notes) == 0 {
		fmt.Fprintln(a.out, "No notes yet")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tUPDATED")
	for _, n := range p.Notes {
		updated := "-"
		if n.UpdatedAt != nil {
			updated = n.UpdatedAt.AsTime().Local().Format(timeLayout)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", n.ID, n.Title, updated)
	}
	return w.Flush()
}

func (a *App) readNote() (string, string, error) {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return "", "", err
	}
	content, err := getMultiline(a.reader, "Enter content", a.out)
	if err != nil {
		return "", "", err
	}
	return title, content, nil
}

func (a *App) readNoteID(prompt string) (int64, error) {
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}

func (a *App) AddNote(ctx context.Context) error {
	title, content, err := a.readNote()
	if err != nil {
		return err
	}

	n, err := a.client.AddNote(ctx, title, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Note %d added\n", n.ID)
	return nil
}

func (a *App) EditNote(ctx context.Context) error {
	id, err := a.readNoteID("Enter note id to edit")
	if err != nil {
		return err
	}
	title, content, err := a.readNote()
	if err != nil {
		return err
	}

	if _, err := a.client.EditNote(ctx, id, title, content); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Note %d updated\n", id)
	return nil
}

func (a *App) DeleteNote(ctx context.Context) error {
	id, err := a.readNoteID("Enter note id to delete")
	if err != nil {
		return err
	}

	if err := a.client.DeleteNote(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Note %d deleted\n", id)
	return nil
}

// Export prints a temporary download link for all notes and saves a copy
// under ./exports.
func (a *App) Export(ctx context.Context) error {
	username := a.client.Username()

	url, err := a.client.Export(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Download link (valid for a limited time):")
	fmt.Fprintln(a.out, url)

	data, err := downloadExport(ctx, url)
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}
	dir, err := ensureExportDir()
	if err != nil {
		return err
	}
	path, err := filex.WriteFileAtomic(dir, username+"-notes.json", data)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Saved to", path)
	return nil
}
