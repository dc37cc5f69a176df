// Package loader reads the twelve month definition files and turns them into
// an ordered list of calendar events.
package loader

import (
	"cmp"
	"context"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	appLog "touhoucal/internal/log"
	"touhoucal/internal/model"
)

// Months is the number of definition sources expected under the root.
const Months = 12

// LoadDir loads the definitions stored as 1.yaml .. 12.yaml in dir.
func LoadDir(ctx context.Context, dir string) ([]model.Event, error) {
	return Load(ctx, os.DirFS(dir))
}

// Load reads every month source from fsys and returns the events sorted by
// (month, day, name). Sources are read concurrently; when several fail the
// error of the lowest month is returned so diagnostics stay stable.
//
// Duplicate (month, day, name) triples are kept as-is.
func Load(ctx context.Context, fsys fs.FS) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	perMonth := make([][]model.Event, Months)
	errs := make([]error, Months)

	var g errgroup.Group
	for i := range Months {
		g.Go(func() error {
			perMonth[i], errs[i] = loadSource(fsys, i+1)
			return errs[i]
		})
	}
	if err := g.Wait(); err != nil {
		if first, ok := lo.Find(errs, func(e error) bool { return e != nil }); ok {
			return nil, first
		}
		return nil, err
	}

	events := lo.Flatten(perMonth)
	Sort(events)

	appLog.Info("definitions loaded", "events", len(events))
	return events, nil
}

func loadSource(fsys fs.FS, month int) ([]model.Event, error) {
	name := SourceName(month)
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceNotFoundError{Month: month, Path: name, Err: err}
		}
		return nil, err
	}
	defer f.Close()

	return ParseSource(month, f)
}

// Sort orders events by (month, day, name). Equal keys keep their input order.
func Sort(events []model.Event) {
	slices.SortStableFunc(events, func(a, b model.Event) int {
		return cmp.Or(
			cmp.Compare(a.Month, b.Month),
			cmp.Compare(a.Day, b.Day),
			strings.Compare(a.Name, b.Name),
		)
	})
}
