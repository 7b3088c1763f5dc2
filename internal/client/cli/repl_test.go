package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool
	fail     error

	calls []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.fail
}

func (f *fakeExec) isLoggedIn() bool                  { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error    { return f.record("register") }
func (f *fakeExec) Login(context.Context) error       { f.loggedIn = true; return f.record("login") }
func (f *fakeExec) Logout(context.Context) error      { f.loggedIn = false; return f.record("logout") }
func (f *fakeExec) View(context.Context) error        { return f.record("view") }
func (f *fakeExec) AddNote(context.Context) error     { return f.record("add") }
func (f *fakeExec) EditNote(context.Context) error    { return f.record("edit") }
func (f *fakeExec) DeleteNote(context.Context) error  { return f.record("delete") }
func (f *fakeExec) Export(context.Context) error      { return f.record("export") }
func (f *fakeExec) DropAccount(context.Context) error { return f.record("drop-account") }

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if err, ok := v.(error); ok {
				parts = append(parts, err.Error())
				continue
			}
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &printed
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	printed := silencePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"l",
		"view",
		"add",
		"edit",
		"delete",
		"export",
		"drop-account",
		"foobar",
		"logout",
		"register",
		"exit",
		"login",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	want := []string{"login", "view", "view", "add", "edit", "delete", "export", "drop-account", "logout", "register"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}

	out := strings.Join(*printed, "\n")
	for _, s := range []string{"register, login, exit", "(l)ist, add, edit", "Unknown command: foobar", "Bye!", "gn status> "} {
		if !strings.Contains(out, s) {
			t.Fatalf("output missing %q:\n%s", s, out)
		}
	}
}

func TestRunREPL_PrintsCommandErrors(t *testing.T) {
	printed := silencePrintln(t)

	exec := &fakeExec{fail: errors.New("forbidden")}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("delete\nquit\n")))

	out := strings.Join(*printed, "\n")
	if !strings.Contains(out, "Error: forbidden") {
		t.Fatalf("error not reported:\n%s", out)
	}
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	done := make(chan struct{})
	go func() {
		runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("view")))
		close(done)
	}()
	<-done

	if len(exec.calls) != 1 || exec.calls[0] != "view" {
		t.Fatalf("last line without newline must still run, calls = %v", exec.calls)
	}
}
