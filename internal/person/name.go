package person

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"lineage/internal/dictionary"
)

// NameResolver composes display names from the name dictionaries.
type NameResolver struct {
	dicts dictionary.Store
}

// NewNameResolver creates a resolver over the given dictionary store.
func NewNameResolver(dicts dictionary.Store) *NameResolver {
	return &NameResolver{dicts: dicts}
}

// FullNames resolves display names for a batch of persons. The three
// dictionaries are queried concurrently.
func (r *NameResolver) FullNames(ctx context.Context, persons []*Person) (map[int64]string, error) {
	var firstIDs, lastIDs, patroIDs []int64
	for _, p := range persons {
		if p.FirstNameID != nil {
			firstIDs = append(firstIDs, *p.FirstNameID)
		}
		if p.LastNameID != nil {
			lastIDs = append(lastIDs, *p.LastNameID)
		}
		if p.PatronymicID != nil {
			patroIDs = append(patroIDs, *p.PatronymicID)
		}
	}

	var firsts, lasts, patros map[int64]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		firsts, err = r.dicts.Lookup(gctx, dictionary.KindFirstName, firstIDs)
		return err
	})
	g.Go(func() error {
		var err error
		lasts, err = r.dicts.Lookup(gctx, dictionary.KindLastName, lastIDs)
		return err
	})
	g.Go(func() error {
		var err error
		patros, err = r.dicts.Lookup(gctx, dictionary.KindPatronymic, patroIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int64]string, len(persons))
	for _, p := range persons {
		out[p.ID] = composeFullName(p, firsts, lasts, patros)
	}
	return out, nil
}

// FullName resolves one person's display name.
func (r *NameResolver) FullName(ctx context.Context, p *Person) (string, error) {
	names, err := r.FullNames(ctx, []*Person{p})
	if err != nil {
		return "", err
	}
	return names[p.ID], nil
}

// composeFullName joins last name, first name and patronymic in that order.
// A person with no resolvable name parts gets the "Person #<id>" placeholder
// so clients always have something to render.
func composeFullName(p *Person, firsts, lasts, patros map[int64]string) string {
	var parts []string
	if p.LastNameID != nil {
		if v, ok := lasts[*p.LastNameID]; ok && v != "" {
			parts = append(parts, v)
		}
	}
	if p.FirstNameID != nil {
		if v, ok := firsts[*p.FirstNameID]; ok && v != "" {
			parts = append(parts, v)
		}
	}
	if p.PatronymicID != nil {
		if v, ok := patros[*p.PatronymicID]; ok && v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Person #%d", p.ID)
	}
	return strings.Join(parts, " ")
}
