package internal

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Init creates the root page of an empty wiki.
func (app *App) Init(ctx context.Context, w io.Writer) error {
	created, err := app.svc.Init(ctx)
	if err != nil {
		return err
	}
	if !created {
		_, err = fmt.Fprintf(w, "wiki at %s already has a root page\n", app.cfg.Wiki.Path)
		return err
	}
	_, err = fmt.Fprintf(w, "initialized wiki at %s\n", app.cfg.Wiki.Path)
	return err
}

// UpdateNavigation rewrites every sidebar and footer.
func (app *App) UpdateNavigation(ctx context.Context, w io.Writer) error {
	n, err := app.svc.UpdateNavigation(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "updated navigation of %d pages\n", n)
	return err
}

// AddPage creates a page below under. A nil position appends.
func (app *App) AddPage(ctx context.Context, w io.Writer, name, under string, position *int) error {
	page, err := app.svc.AddPage(ctx, name, under, position)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "created %s\n", page.Path)
	return err
}

// MovePage moves a page and its subtree below under.
func (app *App) MovePage(ctx context.Context, w io.Writer, name, under string, position *int) error {
	page, err := app.svc.MovePage(ctx, name, under, position)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "moved to %s\n", page.Path)
	return err
}

// RemovePage removes a leaf page.
func (app *App) RemovePage(ctx context.Context, w io.Writer, name string) error {
	if err := app.svc.RemovePage(ctx, name); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "removed %s\n", name)
	return err
}

// ListPages prints the page tree in reading order, one page per line,
// indented by depth.
func (app *App) ListPages(ctx context.Context, w io.Writer) error {
	items, err := app.svc.ListPages(ctx)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.Root {
			if _, err := fmt.Fprintln(w, it.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s%d. %s\n", strings.Repeat("  ", it.Depth), it.Position, it.Name); err != nil {
			return err
		}
	}
	return nil
}

// ShowNavigation prints the sidebar and footer a page would get.
func (app *App) ShowNavigation(ctx context.Context, w io.Writer, name string) error {
	sidebar, err := app.svc.Sidebar(ctx, name)
	if err != nil {
		return err
	}
	footer, err := app.svc.Footer(ctx, name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n\n---\n%s\n", sidebar, footer.String())
	return err
}
