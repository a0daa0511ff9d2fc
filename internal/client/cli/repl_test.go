package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	busy     []bool

	calls []string
	args  map[string][]string
	err   error
}

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) setBusy(b bool)   { f.busy = append(f.busy, b) }

func (f *fakeExec) Register(context.Context) error { return f.rec("register", nil) }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.rec("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.rec("logout", nil)
}
func (f *fakeExec) Whoami(context.Context) error  { return f.rec("whoami", nil) }
func (f *fakeExec) Refresh(context.Context) error { return f.rec("refresh", nil) }

func (f *fakeExec) Photos(_ context.Context, a []string) error   { return f.rec("photos", a) }
func (f *fakeExec) Photo(_ context.Context, a []string) error    { return f.rec("photo", a) }
func (f *fakeExec) Like(_ context.Context, a []string) error     { return f.rec("like", a) }
func (f *fakeExec) Unlike(_ context.Context, a []string) error   { return f.rec("unlike", a) }
func (f *fakeExec) Upload(_ context.Context, a []string) error   { return f.rec("upload", a) }
func (f *fakeExec) Download(_ context.Context, a []string) error { return f.rec("download", a) }

func (f *fakeExec) Collections(_ context.Context, a []string) error { return f.rec("collections", a) }
func (f *fakeExec) Collection(_ context.Context, a []string) error  { return f.rec("collection", a) }
func (f *fakeExec) NewCollection(context.Context) error             { return f.rec("newcollection", nil) }
func (f *fakeExec) AddPhoto(_ context.Context, a []string) error    { return f.rec("addphoto", a) }

func (f *fakeExec) Categories(context.Context) error             { return f.rec("categories", nil) }
func (f *fakeExec) Tags(context.Context) error                   { return f.rec("tags", nil) }
func (f *fakeExec) Follow(_ context.Context, a []string) error   { return f.rec("follow", a) }
func (f *fakeExec) Unfollow(_ context.Context, a []string) error { return f.rec("unfollow", a) }

// capturePrint replaces printlnFn for the duration of the test and returns
// the printed lines.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func script(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	in := script(
		"help",
		"login",
		"photos 2 tag=desert",
		"photo p1",
		"like p1",
		"unlike p1",
		"upload ./dunes.jpg",
		"download p1 large",
		"collections",
		"collection c1",
		"newcollection",
		"addphoto c1 p1",
		"categories",
		"tags",
		"follow u2",
		"unfollow u2",
		"whoami",
		"refresh",
		"logout",
		"exit",
		"register",
	)

	runREPL(context.Background(), exec, func() string { return "status" }, in)

	want := []string{
		"login", "photos", "photo", "like", "unlike", "upload", "download",
		"collections", "collection", "newcollection", "addphoto", "categories",
		"tags", "follow", "unfollow", "whoami", "refresh", "logout",
	}
	assert.Equal(t, want, exec.calls)
	assert.Equal(t, []string{"2", "tag=desert"}, exec.args["photos"])
	assert.Equal(t, []string{"c1", "p1"}, exec.args["addphoto"])
	assert.Equal(t, []string{"p1", "large"}, exec.args["download"])
}

func TestRunREPL_BusyWrapsEachCommand(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, script("tags", "", "categories", "quit"))

	assert.Equal(t, []bool{true, false, true, false}, exec.busy)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, script("help", "login", "help", "exit"))

	assert.Contains(t, *out, helpAnonymous)
	assert.Contains(t, *out, helpLoggedIn)
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "s" }, script("tags", "foobar", "quit"))

	assert.Equal(t, []string{"tags"}, exec.calls)
	assert.Contains(t, *out, "Error: boom")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("tags")))
	require.Equal(t, []string{"tags"}, exec.calls, "last line without newline still runs")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{}
	runREPL(ctx, exec, func() string { return "s" }, script("tags"))
	assert.Empty(t, exec.calls)
}

func TestNeedArgs(t *testing.T) {
	require.NoError(t, needArgs([]string{"a"}, 1, "x <a>"))

	err := needArgs(nil, 1, "photo <id>")
	require.ErrorIs(t, err, errUsage)
	assert.Equal(t, "usage: photo <id>", err.Error())
}
