package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"touhoucal/internal/model"
)

// monthFS returns a filesystem with all twelve sources present and empty,
// overridden by the given contents.
func monthFS(sources map[int]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for m := 1; m <= Months; m++ {
		fsys[SourceName(m)] = &fstest.MapFile{Data: []byte(sources[m])}
	}
	return fsys
}

func block(month, day int, name string) string {
	return fmt.Sprintf("month: %d\nday: %d\nname: %s\nmessage: m\nexplanation: e\n", month, day, name)
}

func keys(events []model.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.String()
	}
	return out
}

func TestLoad_SortsByMonthDayName(t *testing.T) {
	fsys := monthFS(map[int]string{
		3: block(3, 1, "B"),
		1: block(1, 5, "Z") + "---\n" + block(1, 5, "A"),
	})

	events, err := Load(context.Background(), fsys)
	require.NoError(t, err)
	require.Equal(t, []string{"01/05 - A", "01/05 - Z", "03/01 - B"}, keys(events))
}

func TestLoad_EmptySourcesAreValid(t *testing.T) {
	events, err := Load(context.Background(), monthFS(nil))
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestLoad_KeepsDuplicates(t *testing.T) {
	fsys := monthFS(map[int]string{
		7: block(7, 7, "Tanabata") + "---\n" + block(7, 7, "Tanabata"),
	})

	events, err := Load(context.Background(), fsys)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestLoad_MissingSource(t *testing.T) {
	fsys := monthFS(nil)
	delete(fsys, SourceName(11))
	delete(fsys, SourceName(4))

	_, err := Load(context.Background(), fsys)

	var notFound *SourceNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, 4, notFound.Month)
	require.Equal(t, "4.yaml", notFound.Path)
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_ReportsLowestFailingMonth(t *testing.T) {
	fsys := monthFS(map[int]string{
		9: "month: 9\nday: 1\n",
		2: "month: 2\nday: 3\nname: x\n",
	})

	_, err := Load(context.Background(), fsys)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "2.yaml", missing.Source)
	require.Equal(t, "message", missing.Field)
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, monthFS(nil))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for m := 1; m <= Months; m++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, SourceName(m)), nil, 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.yaml"), []byte(
		"month: 2\nday: 29\nname: Miyako Day\nmessage: M\nexplanation: E\n"), 0o600))

	events, err := LoadDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Miyako Day", events[0].Name)
}

func TestSort_StableForEqualKeys(t *testing.T) {
	events := []model.Event{
		{Month: 1, Day: 1, Name: "A", Message: "first"},
		{Month: 1, Day: 1, Name: "A", Message: "second"},
		{Month: 1, Day: 1, Name: "0"},
	}
	Sort(events)

	require.Equal(t, "0", events[0].Name)
	require.Equal(t, "first", events[1].Message)
	require.Equal(t, "second", events[2].Message)
}
