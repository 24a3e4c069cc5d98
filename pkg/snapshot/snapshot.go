package snapshot

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/fiber"
)

// Content types of snapshot objects.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

// Document is the JSON form of a fiber snapshot.
type Document struct {
	Name   string         `json:"name"`
	Fibers int            `json:"fibers"`
	Tree   []fiber.Record `json:"tree"`
}

// Keys are the object keys a snapshot was written to.
type Keys struct {
	HTML   string
	Fibers string
}

// Save writes html to <name>.html and records to <name>.fibers.json.
func Save(ctx context.Context, store Store, name, html string, records []fiber.Record) (Keys, error) {
	if !validName.MatchString(name) {
		return Keys{}, errors.New(errors.CodeSnapshotConfig).
			WithDetailf("invalid snapshot name %q", name).
			WithSuggestion("Use letters, digits, '.', '_', '-' and '/'")
	}

	data, err := json.MarshalIndent(Document{Name: name, Fibers: len(records), Tree: records}, "", "  ")
	if err != nil {
		return Keys{}, errors.New(errors.CodeSnapshotWrite).Wrap(err)
	}

	keys := Keys{HTML: name + ".html", Fibers: name + ".fibers.json"}
	if err := store.Put(ctx, keys.HTML, []byte(html), ContentTypeHTML); err != nil {
		return Keys{}, err
	}
	if err := store.Put(ctx, keys.Fibers, append(data, '\n'), ContentTypeJSON); err != nil {
		return Keys{}, err
	}

	slog.Default().With("component", "snapshot").Debug("snapshot saved",
		"name", name, "fibers", len(records), "html_bytes", len(html))
	return keys, nil
}
