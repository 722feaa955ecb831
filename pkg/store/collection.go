package store

import (
	"context"
	"time"

	"github.com/nikogura/folio/pkg/content"
	"github.com/pkg/errors"
)

// Collection is the id-keyed CRUD surface over one list of the document.
// New records get the next integer id and go to the front of the list.
type Collection[T any] struct {
	store   *Store
	kind    string
	items   func(data *content.Data) *[]T
	id      func(item *T) *string
	prepare func(data *content.Data, item *T, previous *T, now time.Time) error
}

// List returns the collection in stored order, newest first.
func (c *Collection[T]) List(ctx context.Context) (items []T, err error) {
	var data content.Data
	data, err = c.store.Load(ctx)
	if err != nil {
		return items, err
	}
	items = *c.items(&data)
	return items, err
}

// Get returns the record with id.
func (c *Collection[T]) Get(ctx context.Context, id string) (item T, err error) {
	var items []T
	items, err = c.List(ctx)
	if err != nil {
		return item, err
	}

	index := c.indexOf(items, id)
	if index < 0 {
		err = errors.Wrapf(content.ErrNotFound, "%s %q", c.kind, id)
		return item, err
	}
	item = items[index]

	return item, err
}

// Create assigns an id, derives computed fields, prepends the record and persists.
func (c *Collection[T]) Create(ctx context.Context, item T) (created T, err error) {
	err = c.store.mutate(ctx, func(data *content.Data, now time.Time) (mutateErr error) {
		items := c.items(data)

		ids := make([]string, 0, len(*items))
		for i := range *items {
			ids = append(ids, *c.id(&(*items)[i]))
		}
		*c.id(&item) = content.NextID(ids)

		mutateErr = c.prepare(data, &item, nil, now)
		if mutateErr != nil {
			return mutateErr
		}

		*items = append([]T{item}, *items...)
		return mutateErr
	})
	if err != nil {
		err = errors.Wrapf(err, "failed to create %s", c.kind)
		return created, err
	}

	created = item
	return created, err
}

// Update replaces the record with the same id in place.
func (c *Collection[T]) Update(ctx context.Context, item T) (updated T, err error) {
	id := *c.id(&item)

	err = c.store.mutate(ctx, func(data *content.Data, now time.Time) (mutateErr error) {
		items := c.items(data)

		index := c.indexOf(*items, id)
		if index < 0 {
			mutateErr = errors.Wrapf(content.ErrNotFound, "%s %q", c.kind, id)
			return mutateErr
		}

		previous := (*items)[index]
		mutateErr = c.prepare(data, &item, &previous, now)
		if mutateErr != nil {
			return mutateErr
		}

		(*items)[index] = item
		return mutateErr
	})
	if err != nil {
		err = errors.Wrapf(err, "failed to update %s", c.kind)
		return updated, err
	}

	updated = item
	return updated, err
}

// Delete removes the record with id. Deleting an unknown id succeeds.
func (c *Collection[T]) Delete(ctx context.Context, id string) (err error) {
	if id == "" {
		err = content.NewValidationError("id", "is required")
		return err
	}

	err = c.store.mutate(ctx, func(data *content.Data, _ time.Time) (mutateErr error) {
		items := c.items(data)

		kept := make([]T, 0, len(*items))
		for i := range *items {
			if *c.id(&(*items)[i]) != id {
				kept = append(kept, (*items)[i])
			}
		}
		*items = kept

		return mutateErr
	})
	if err != nil {
		err = errors.Wrapf(err, "failed to delete %s", c.kind)
		return err
	}

	return err
}

func (c *Collection[T]) indexOf(items []T, id string) (index int) {
	for i := range items {
		if *c.id(&items[i]) == id {
			index = i
			return index
		}
	}
	index = -1
	return index
}
