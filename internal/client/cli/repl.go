package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Verify(ctx context.Context, id string) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	AddTask(ctx context.Context) error
	ListTasks(ctx context.Context) error
	ShowTask(ctx context.Context, id string) error
	UpdateTask(ctx context.Context, id string) error
	DeleteTask(ctx context.Context, id string) error
	ClearTasks(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// Commands that need an id take it as the first argument, e.g. "show <id>".
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by commands are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tk (%s)> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add, (l)ist, show <id>, update <id>, delete <id>, clear, passwd, logout, exit")
			} else {
				printlnFn("Available commands: register, verify <id>, login, forgot, reset, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "verify":
			cmdErr = withID(args, func(id string) error { return a.Verify(ctx, id) })

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "passwd":
			cmdErr = a.ChangePassword(ctx)

		case "forgot":
			cmdErr = a.ForgotPassword(ctx)

		case "reset":
			cmdErr = a.ResetPassword(ctx)

		case "add":
			cmdErr = a.AddTask(ctx)

		case "l", "list":
			cmdErr = a.ListTasks(ctx)

		case "show":
			cmdErr = withID(args, func(id string) error { return a.ShowTask(ctx, id) })

		case "update":
			cmdErr = withID(args, func(id string) error { return a.UpdateTask(ctx, id) })

		case "delete":
			cmdErr = withID(args, func(id string) error { return a.DeleteTask(ctx, id) })

		case "clear":
			cmdErr = a.ClearTasks(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}

		if err != nil {
			return
		}
	}
}

var errUsageID = errors.New("usage: <command> <id>")

func withID(args []string, fn func(id string) error) error {
	if len(args) == 0 {
		return errUsageID
	}
	return fn(args[0])
}
