package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/artfolio/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errUsage = errors.New("usage")

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	setBusy(bool)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Refresh(ctx context.Context) error

	Photos(ctx context.Context, args []string) error
	Photo(ctx context.Context, args []string) error
	Like(ctx context.Context, args []string) error
	Unlike(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error

	Collections(ctx context.Context, args []string) error
	Collection(ctx context.Context, args []string) error
	NewCollection(ctx context.Context) error
	AddPhoto(ctx context.Context, args []string) error

	Categories(ctx context.Context) error
	Tags(ctx context.Context) error
	Follow(ctx context.Context, args []string) error
	Unfollow(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register, login, photos [page], photo <id>, collections [page], collection <id>, categories, tags, exit"
	helpLoggedIn  = "Available commands: whoami, refresh, logout, photos [page], photo <id>, like <id>, unlike <id>, upload <path>, " +
		"download <id> [size], collections [page], collection <id>, newcollection, addphoto <collection> <photo>, " +
		"categories, tags, follow <user>, unfollow <user>, exit"
)

// runREPL starts a read-eval-print loop for the artfolio CLI.
//
// It reads a line from r, parses the first token as the command and
// dispatches to methods on a with the remaining tokens. Command errors are
// printed in their user-facing form and the loop continues. The loop exits
// on EOF, on ctx cancellation, or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("artfolio (%s)> ", statusFn()))
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		a.setBusy(true)
		err = dispatch(ctx, a, cmd, args)
		a.setBusy(false)

		switch {
		case err == nil:
		case errors.Is(err, errUsage):
			printlnFn(err.Error())
		default:
			printlnFn("Error:", client.Describe(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpAnonymous)
		}
		return nil

	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.Whoami(ctx)
	case "refresh":
		return a.Refresh(ctx)

	case "photos":
		return a.Photos(ctx, args)
	case "photo":
		return a.Photo(ctx, args)
	case "like":
		return a.Like(ctx, args)
	case "unlike":
		return a.Unlike(ctx, args)
	case "upload":
		return a.Upload(ctx, args)
	case "download":
		return a.Download(ctx, args)

	case "collections":
		return a.Collections(ctx, args)
	case "collection":
		return a.Collection(ctx, args)
	case "newcollection":
		return a.NewCollection(ctx)
	case "addphoto":
		return a.AddPhoto(ctx, args)

	case "categories":
		return a.Categories(ctx)
	case "tags":
		return a.Tags(ctx)
	case "follow":
		return a.Follow(ctx, args)
	case "unfollow":
		return a.Unfollow(ctx, args)
	}

	printlnFn("Unknown command:", cmd)
	return nil
}

// needArgs returns a usage error unless args has at least n elements.
func needArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	return nil
}
