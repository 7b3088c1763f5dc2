package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	View(ctx context.Context) error
	AddNote(ctx context.Context) error
	EditNote(ctx context.Context) error
	DeleteNote(ctx context.Context) error
	Export(ctx context.Context) error
	DropAccount(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// Prompts issued by the commands read from the same reader. The loop exits
// on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account (logs you in)
//	  - login          authenticate
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - (l)ist | view  show your profile and notes
//	  - add            add a note
//	  - edit           edit a note
//	  - delete         delete a note
//	  - export         get a download link for all notes
//	  - drop-account   delete your account and all notes
//	  - logout         log out
//	  - exit | quit    leave the program
//
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gn %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		var cmdErr error

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, edit, delete, export, drop-account, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "l", "list", "view":
			cmdErr = a.View(ctx)

		case "add":
			cmdErr = a.AddNote(ctx)

		case "edit":
			cmdErr = a.EditNote(ctx)

		case "delete":
			cmdErr = a.DeleteNote(ctx)

		case "export":
			cmdErr = a.Export(ctx)

		case "drop-account":
			cmdErr = a.DropAccount(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
