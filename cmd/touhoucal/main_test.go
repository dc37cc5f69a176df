package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"touhoucal/internal/config"
)

// writeDays creates 1.yaml .. 12.yaml under a temp dir with the given contents.
func writeDays(t *testing.T, sources map[int]string) string {
	t.Helper()
	dir := t.TempDir()
	for m := 1; m <= 12; m++ {
		path := filepath.Join(dir, strconv.Itoa(m)+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(sources[m]), 0o600))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", ""}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

const miyako = "month: 2\nday: 29\nname: Miyako Day\nmessage: M\nexplanation: E\n"

func TestGenerate_EndToEnd(t *testing.T) {
	days := writeDays(t, map[int]string{2: miyako})
	output := filepath.Join(t.TempDir(), "touhou_calendar.ics")

	out, err := execute(t, "generate", "--days", days, "--output", output)
	require.NoError(t, err)
	require.Equal(t, "Parsed 1 events:\n\n  02/29 - Miyako Day\n\nWritten touhou_calendar.ics with 1 events.\n", out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	content := string(data)

	require.Equal(t, 1, strings.Count(content, "BEGIN:VEVENT"))
	require.Contains(t, content, "\r\nDTSTART;VALUE=DATE:20240229\r\n")
	require.Contains(t, content, "\r\nSUMMARY:Miyako Day\r\n")
	require.Contains(t, content, "\r\nDESCRIPTION:M\\n\\nE\r\n")
	require.Contains(t, content, "\r\nRRULE:FREQ=YEARLY\r\n")
	require.True(t, strings.HasSuffix(content, "END:VCALENDAR\r\n"))
}

func TestRoot_DefaultsToGenerate(t *testing.T) {
	days := writeDays(t, map[int]string{2: miyako})
	output := filepath.Join(t.TempDir(), "cal.ics")

	_, err := execute(t, "--days", days, "--output", output)
	require.NoError(t, err)
	require.FileExists(t, output)
}

func TestGenerate_MissingFieldWritesNothing(t *testing.T) {
	days := writeDays(t, map[int]string{
		2: "month: 2\nday: 29\nname: Miyako Day\nexplanation: E\n",
	})
	output := filepath.Join(t.TempDir(), "touhou_calendar.ics")

	_, err := execute(t, "generate", "--days", days, "--output", output)
	require.ErrorContains(t, err, `2.yaml block 1: missing required field "message"`)
	require.NoFileExists(t, output)
}

func TestGenerate_MissingSourceWritesNothing(t *testing.T) {
	days := writeDays(t, nil)
	require.NoError(t, os.Remove(filepath.Join(days, "12.yaml")))
	output := filepath.Join(t.TempDir(), "touhou_calendar.ics")

	_, err := execute(t, "generate", "--days", days, "--output", output)
	require.ErrorContains(t, err, "month 12: source 12.yaml not found")
	require.NoFileExists(t, output)
}

func TestList(t *testing.T) {
	days := writeDays(t, map[int]string{
		2: miyako,
		7: "month: 7\nday: 7\nname: Tanabata\nmessage: m\nexplanation: e\ncharacters: [Orihime, Hikoboshi]\n",
	})

	out, err := execute(t, "list", "--days", days)
	require.NoError(t, err)
	require.Contains(t, out, "Miyako Day")
	require.Contains(t, out, "1246b52e625d9167@touhou-calendar")
	require.Contains(t, out, "Orihime, Hikoboshi")
	require.Less(t, strings.Index(out, "02/29"), strings.Index(out, "07/07"))
}

func TestVerify(t *testing.T) {
	days := writeDays(t, map[int]string{2: miyako})
	output := filepath.Join(t.TempDir(), "touhou_calendar.ics")

	_, err := execute(t, "generate", "--days", days, "--output", output)
	require.NoError(t, err)

	out, err := execute(t, "verify", "--days", days, "--output", output)
	require.NoError(t, err)
	require.Contains(t, out, "is up to date with 1 events")

	// Same events, different explanation: structurally valid but stale.
	require.NoError(t, os.WriteFile(filepath.Join(days, "2.yaml"),
		[]byte(strings.Replace(miyako, "explanation: E", "explanation: Changed", 1)), 0o600))
	_, err = execute(t, "verify", "--days", days, "--output", output)
	require.ErrorContains(t, err, "is stale")

	// A new event changes the count.
	require.NoError(t, os.WriteFile(filepath.Join(days, "3.yaml"),
		[]byte("month: 3\nday: 3\nname: Hinamatsuri\nmessage: m\nexplanation: e\n"), 0o600))
	_, err = execute(t, "verify", "--days", days, "--file", output)
	require.ErrorContains(t, err, "calendar has 1 events, want 2")
}

func TestUpcoming(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1)
	src := "month: " + strconv.Itoa(int(tomorrow.Month())) +
		"\nday: " + strconv.Itoa(tomorrow.Day()) +
		"\nname: Tomorrow Fest\nmessage: m\nexplanation: e\n"
	days := writeDays(t, map[int]string{int(tomorrow.Month()): src})

	out, err := execute(t, "upcoming", "--days", days, "--days-ahead", "3")
	require.NoError(t, err)
	require.Contains(t, out, "Tomorrow Fest")
	require.Contains(t, out, tomorrow.Format("2006-01-02"))
}

func TestUpcoming_Empty(t *testing.T) {
	days := writeDays(t, nil)

	out, err := execute(t, "upcoming", "--days", days, "--days-ahead", "5")
	require.NoError(t, err)
	require.Equal(t, "No events in the next 5 days.\n", out)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "touhoucal.yaml")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "config", "init"})
	require.NoError(t, root.Execute())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)

	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "config", "init"})
	require.ErrorContains(t, root.Execute(), "already exists")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "list", "--days", writeDays(t, nil), "--log-level", "loud")
	require.ErrorContains(t, err, "unknown log level")
}

func TestWatch_GeneratesThenStops(t *testing.T) {
	days := writeDays(t, map[int]string{2: miyako})
	output := filepath.Join(t.TempDir(), "touhou_calendar.ics")

	opts := &options{cfg: config.DefaultConfig()}
	opts.cfg.DaysDir = days
	opts.cfg.Output = output

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, runWatch(ctx, cmd, opts))
	require.FileExists(t, output)
}

func TestWatch_InvalidSchedule(t *testing.T) {
	opts := &options{cfg: config.DefaultConfig()}
	opts.cfg.Refresh = "every now and then"

	err := runWatch(context.Background(), &cobra.Command{}, opts)
	require.ErrorContains(t, err, "invalid refresh schedule")
}
