package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/graminsta/storysync/internal/filex"
	"github.com/graminsta/storysync/internal/submit"
)

// New collects a story from the user and hands it to the submitter. The
// submitter decides whether it goes out immediately or into the offline
// queue; this command only reports which of the two happened.
func (a *App) New(ctx context.Context) error {

	description, err := GetSimpleText(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}

	path, err := GetSimpleText(a.reader, "Enter photo file path", a.out)
	if err != nil {
		return err
	}

	photo, mimeType, err := filex.ReadPhoto(path)
	if err != nil {
		return err
	}

	coords, err := GetSimpleText(a.reader, "Enter coordinates as lat,lon (empty to skip)", a.out)
	if err != nil {
		return err
	}

	lat, lon, err := parseCoords(coords)
	if err != nil {
		return err
	}

	res, err := a.submitter.Submit(ctx, submit.Request{
		Description: description,
		Photo:       photo,
		PhotoMime:   mimeType,
		Lat:         lat,
		Lon:         lon,
	})
	if err != nil {
		return err
	}

	if res.Offline {
		fmt.Fprintln(a.out, res.Message)
	} else {
		fmt.Fprintln(a.out, "Story submitted:", res.Message)
	}

	return nil
}

// parseCoords parses "lat,lon". An empty string means no coordinates and
// returns two nils.
func parseCoords(s string) (*float64, *float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("expected lat,lon, got %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid longitude %q", parts[1])
	}

	return &lat, &lon, nil
}
