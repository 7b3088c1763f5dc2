package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type fakeClient struct {
	username string
	closed   bool
	err      error

	account  client.Account
	password string
	added    [2]string
	edited   int64
	deleted  int64
	dropped  bool
	profile  *pb.ProfileResponse
}

func (f *fakeClient) Close() error     { f.closed = true; return nil }
func (f *fakeClient) Username() string { return f.username }

func (f *fakeClient) Register(_ context.Context, a client.Account) error {
	if f.err != nil {
		return f.err
	}
	f.account = a
	f.account.Password = append([]byte(nil), a.Password...)
	f.username = a.Username
	return nil
}

func (f *fakeClient) Login(_ context.Context, username string, password []byte) error {
	if f.err != nil {
		return f.err
	}
	f.password = string(password)
	f.username = username
	return nil
}

func (f *fakeClient) Logout(context.Context) error {
	f.username = ""
	return f.err
}

func (f *fakeClient) Profile(context.Context) (*pb.ProfileResponse, error) {
	return f.profile, f.err
}

func (f *fakeClient) AddNote(_ context.Context, title, content string) (*pb.Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.added = [2]string{title, content}
	return &pb.Note{ID: 5, Title: title, Content: content}, nil
}

func (f *fakeClient) EditNote(_ context.Context, id int64, title, content string) (*pb.Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.edited = id
	return &pb.Note{ID: id, Title: title, Content: content}, nil
}

func (f *fakeClient) DeleteNote(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = id
	return nil
}

func (f *fakeClient) Export(context.Context) (string, error) {
	return "https://s3.example.com/users/alice/notes.json?sig=1", f.err
}

func (f *fakeClient) DeleteAccount(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.dropped = true
	f.username = ""
	return nil
}

// newTestApp reads prompts from input and stubs the terminal password read.
func newTestApp(t *testing.T, c *fakeClient, input, password string) (*App, *bytes.Buffer) {
	t.Helper()

	origPW := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { getPassword = origPW })

	var out bytes.Buffer
	return &App{client: c, reader: bufio.NewReader(strings.NewReader(input)), out: &out}, &out
}

func TestIsLoggedIn(t *testing.T) {
	app := &App{client: &fakeClient{}}
	if app.isLoggedIn() {
		t.Fatalf("expected isLoggedIn() == false without a username")
	}

	app = &App{client: &fakeClient{username: "alice"}}
	if !app.isLoggedIn() {
		t.Fatalf("expected isLoggedIn() == true with a username")
	}
}

func TestGetStatus(t *testing.T) {
	a := &App{client: &fakeClient{}}
	if got := a.getStatus(); got != "" {
		t.Fatalf("want empty status, got %q", got)
	}

	a = &App{client: &fakeClient{username: "alice"}}
	if got, want := a.getStatus(), "(alice) "; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRun_ClosesClient(t *testing.T) {
	silencePrintln(t)

	c := &fakeClient{}
	app, out := newTestApp(t, c, "exit\n", "")
	app.Run(context.Background())

	if !c.closed {
		t.Fatal("client must be closed when the app stops")
	}
	if !strings.Contains(out.String(), "Welcome to gophnotes") {
		t.Fatalf("missing greeting: %q", out.String())
	}
}

func TestView(t *testing.T) {
	updated := time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local)
	c := &fakeClient{username: "alice", profile: &pb.ProfileResponse{
		User: &pb.User{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Smith"},
		Notes: []*pb.Note{
			{ID: 1, Title: "groceries", UpdatedAt: timestamppb.New(updated)},
			{ID: 2, Title: "ideas", UpdatedAt: timestamppb.New(updated)},
		},
	}}
	app, out := newTestApp(t, c, "", "")

	if err := app.View(context.Background()); err != nil {
		t.Fatalf("View error: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Alice Smith <alice@example.com> (alice)", "groceries", "ideas", "2024-03-01 10:30"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q does not contain %q", got, want)
		}
	}
}

func TestView_NoNotes(t *testing.T) {
	c := &fakeClient{username: "alice", profile: &pb.ProfileResponse{User: &pb.User{Username: "alice"}}}
	app, out := newTestApp(t, c, "", "")

	if err := app.View(context.Background()); err != nil {
		t.Fatalf("View error: %v", err)
	}
	if !strings.Contains(out.String(), "No notes yet") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
