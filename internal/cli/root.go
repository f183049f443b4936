package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.session.LoggedIn() {
		s = a.session.UserName() + " "
	}
	if a.syncCtl.Online() {
		s += "online"
	} else {
		s += "offline"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to StorySync CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "storysync %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		var err error

		switch cmd {
		case "help":
			if a.session.LoggedIn() {
				fmt.Fprintln(a.out, "Available commands: new, list, pending, save <id>, saved, unsave <id>, sync, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: login, new, pending, sync, exit")
			}

		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "new":
			err = a.New(ctx)
		case "list":
			err = a.List(ctx)
		case "pending":
			err = a.Pending(ctx)
		case "save":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: save <id>")
				continue
			}
			err = a.Save(ctx, args[0])
		case "saved":
			err = a.Saved(ctx)
		case "unsave":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: unsave <id>")
				continue
			}
			err = a.Unsave(ctx, args[0])
		case "sync":
			err = a.Sync(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(a.out, "Error:", err.Error())
		}
	}

}
