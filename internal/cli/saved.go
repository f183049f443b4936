package cli

import (
	"context"
	"fmt"
)

// Save fetches a story by id and stores it locally for offline reading.
func (a *App) Save(ctx context.Context, id string) error {
	token, ok := a.session.Token()
	if !ok {
		return fmt.Errorf("login first")
	}

	story, err := a.api.GetStory(ctx, token, id)
	if err != nil {
		return err
	}

	if err := a.saved.Put(ctx, story); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved story %s\n", story.ID)
	return nil
}

// Saved prints the locally stored stories, newest first.
func (a *App) Saved(ctx context.Context) error {
	items, err := a.saved.GetAll(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No saved stories")
		return nil
	}

	for _, item := range items {
		fmt.Fprintf(a.out, "%s  %s  %s\n", item.ID, item.CreatedAt.Format("2006-01-02 15:04"), item.Name)
		fmt.Fprintf(a.out, "    %s\n", item.Description)
	}

	return nil
}

// Unsave removes a story from local storage. Removing an id that is not
// there is not an error.
func (a *App) Unsave(ctx context.Context, id string) error {
	if err := a.saved.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed story %s\n", id)
	return nil
}
