package cli

import (
	"context"
	"fmt"

	"github.com/graminsta/storysync/internal/models"
)

// List prints the story feed from the remote API.
func (a *App) List(ctx context.Context) error {
	token, ok := a.session.Token()
	if !ok {
		return fmt.Errorf("login first")
	}

	items, err := a.api.GetStories(ctx, token)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No stories yet")
		return nil
	}

	for _, item := range items {
		fmt.Fprintf(a.out, "%s  %s  %s\n", item.ID, item.CreatedAt.Format("2006-01-02 15:04"), item.Name)
		fmt.Fprintf(a.out, "    %s\n", item.Description)
	}

	return nil
}

// Pending prints the local queue: everything saved while offline that has
// not been confirmed by the server yet.
func (a *App) Pending(ctx context.Context) error {
	entries, err := a.queue.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Nothing pending")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(a.out, "#%d  %s  %s\n", e.TempID, e.CreatedAt.Format("2006-01-02 15:04"), e.Description)
		if e.LastError != "" {
			fmt.Fprintf(a.out, "    last attempt: %s\n", e.LastError)
		}
	}

	return nil
}

// Sync arms the background reconciliation trigger by hand. The actual run
// starts as soon as the API is reachable.
func (a *App) Sync(ctx context.Context) error {
	if err := a.syncCtl.RegisterSync(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sync armed; pending stories will be sent once the API is reachable")
	return nil
}
