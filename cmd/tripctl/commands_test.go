package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "trip_planner/internal/adapters/redis"
	"trip_planner/internal/app"
	"trip_planner/internal/shared"
)

type fakeClipboard struct{ text string }

func (f *fakeClipboard) WriteAll(s string) error { f.text = s; return nil }

func newTestCLI(t *testing.T) (*cli, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	kv := redisad.NewWithClient(rdb, "tripctl:test:")
	return &cli{
		cfg:     shared.Config{Workers: 2},
		planner: app.NewPlanner(kv, app.PlannerConfig{}),
	}, mr
}

func run(t *testing.T, c *cli, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestImport_FilesMergedInOrderWithOneWrite(t *testing.T) {
	c, mr := newTestCLI(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(a, []byte("1,Ann,5,great\n{\"x\":1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("1,Bob,4,ok\nbad line\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, c, "", "import", a, b)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "imported 2 review(s)") {
		t.Fatalf("missing import count:\n%s", out)
	}
	if !strings.Contains(out, "Average rating: 4.5 / 5 (2 reviews)") {
		t.Fatalf("missing day summary:\n%s", out)
	}

	all := c.planner.Reviews.LoadAll(context.Background())
	if len(all) != 2 || all[0].Member != "Ann" || all[1].Member != "Bob" {
		t.Fatalf("want Ann then Bob, got %+v", all)
	}
	if !mr.Exists("tripctl:test:" + app.KeyReviews) {
		t.Fatal("reviews key not written")
	}
}

func TestImport_Stdin(t *testing.T) {
	c, _ := newTestCLI(t)
	out, err := run(t, c, "2,Cy,3,fine\n", "import", "--day", "2")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "stdin: ") || !strings.Contains(out, "Day 02: Average rating: 3.0 / 5 (1 review)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestImport_NothingImportable(t *testing.T) {
	c, _ := newTestCLI(t)
	if _, err := run(t, c, "header only\n", "import"); err == nil {
		t.Fatal("want error when no rows are importable")
	}
}

func TestImport_MissingFile(t *testing.T) {
	c, _ := newTestCLI(t)
	if _, err := run(t, c, "", "import", filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("want read error")
	}
}

func TestExportSummaryAndDay(t *testing.T) {
	c, _ := newTestCLI(t)
	if _, err := run(t, c, "1,Ann,5,\"hi, there\"\n", "import"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if _, err := run(t, c, "", "export", "-o", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), `"day","member","rating","comment","timestamp"`) {
		t.Fatalf("unexpected csv:\n%s", b)
	}

	out, err := run(t, c, "", "summary")
	if err != nil || !strings.HasPrefix(out, "Day1 | Ann | 5/5 | hi, there") {
		t.Fatalf("summary: %v %q", err, out)
	}

	out, err = run(t, c, "", "day", "1")
	if err != nil || !strings.Contains(out, "★★★★★  Ann") {
		t.Fatalf("day: %v %q", err, out)
	}
	if _, err := run(t, c, "", "day", "zero"); err == nil {
		t.Fatal("want error for non-numeric day")
	}
}

func TestSummary_Copy(t *testing.T) {
	c, _ := newTestCLI(t)
	if _, err := run(t, c, "3,Dee,4,nice\n", "import"); err != nil {
		t.Fatal(err)
	}
	cb := &fakeClipboard{}
	cmd := newSummaryCmd(c, cb)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--copy"})
	cmd.SetContext(context.Background())
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if cb.text != "Day3 | Dee | 4/5 | nice" {
		t.Fatalf("clipboard = %q", cb.text)
	}
	if !strings.Contains(out.String(), "copied 1 review(s)") {
		t.Fatalf("out = %q", out.String())
	}
}
