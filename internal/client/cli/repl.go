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
	Whoami(ctx context.Context) error
	Store(ctx context.Context, args []string) error
	Teams(ctx context.Context) error
	AddTeam(ctx context.Context, args []string) error
	RunTeam(ctx context.Context, args []string) error
	RenameTeam(ctx context.Context, args []string) error
	RemoveTeam(ctx context.Context, args []string) error
	Integrations(ctx context.Context) error
	Configure(ctx context.Context, args []string) error
	Categories(ctx context.Context) error
	AddWorkflow(ctx context.Context, args []string) error
	CloneWorkflow(ctx context.Context, args []string) error
	Workflow(ctx context.Context, args []string) error
	RunWorkflow(ctx context.Context, args []string) error
}

// authOnly lists the commands that need a restored, authenticated session.
var authOnly = map[string]bool{
	"logout":       true,
	"whoami":       true,
	"teams":        true,
	"addteam":      true,
	"run":          true,
	"rename":       true,
	"rmteam":       true,
	"integrations": true,
	"configure":    true,
	"addworkflow":  true,
	"clone":        true,
	"workflow":     true,
	"runworkflow":  true,
}

// runREPL starts a simple read-eval-print loop for the divert client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands that prompt for more input read
// from the same reader, so piped input stays in order. Unknown commands are
// reported back to the user. The loop exits at end of input or when the
// user types "exit" or "quit".
//
// Prompt & Commands
//
//	Always:
//	  - help                            show available commands
//	  - register                        create an account
//	  - login                           authenticate
//	  - store [category]                browse crews and workflows
//	  - categories                      list store categories
//	  - exit | quit                     leave the program
//
//	Logged in:
//	  - whoami                          show the current user
//	  - teams                           list your teams
//	  - addteam <crewID> [name]         install a crew as a team
//	  - run <teamID> <topic...>         execute a team
//	  - rename <teamID> <name...>       rename a team
//	  - rmteam <teamID>                 remove a team
//	  - addworkflow <workflowID> [name] install a workflow as a team
//	  - clone <template> [service=id]   clone a workflow template
//	  - workflow <workflowID>           show a workflow and missing credentials
//	  - runworkflow <workflowID> [k=v]  execute a workflow with inputs
//	  - integrations                    list third-party integrations
//	  - configure <service>             enter credentials for a service
//	  - logout                          log out
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("divert %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if line == "" && err != nil {
			return
		}
		if !dispatch(ctx, a, strings.Fields(line)) {
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatch runs one command line and reports whether the loop should go on.
func dispatch(ctx context.Context, a execIface, parts []string) bool {
	if len(parts) == 0 {
		return true
	}
	cmd, args := parts[0], parts[1:]

	if authOnly[cmd] && !a.isLoggedIn() {
		printlnFn("Please log in first.")
		return true
	}

	var err error
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn("Available commands: whoami, store, categories, teams, addteam, run, rename, rmteam, " +
				"addworkflow, clone, workflow, runworkflow, integrations, configure, logout, exit")
		} else {
			printlnFn("Available commands: register, login, store, categories, exit")
		}

	case "register":
		err = a.Register(ctx)

	case "login":
		err = a.Login(ctx)

	case "logout":
		err = a.Logout(ctx)

	case "whoami":
		err = a.Whoami(ctx)

	case "store":
		err = a.Store(ctx, args)

	case "categories":
		err = a.Categories(ctx)

	case "teams":
		err = a.Teams(ctx)

	case "addteam":
		err = a.AddTeam(ctx, args)

	case "run":
		err = a.RunTeam(ctx, args)

	case "rename":
		err = a.RenameTeam(ctx, args)

	case "rmteam":
		err = a.RemoveTeam(ctx, args)

	case "addworkflow":
		err = a.AddWorkflow(ctx, args)

	case "clone":
		err = a.CloneWorkflow(ctx, args)

	case "workflow":
		err = a.Workflow(ctx, args)

	case "runworkflow":
		err = a.RunWorkflow(ctx, args)

	case "integrations":
		err = a.Integrations(ctx)

	case "configure":
		err = a.Configure(ctx, args)

	case "exit", "quit":
		printlnFn("Bye!")
		return false

	default:
		printlnFn("Unknown command:", cmd)
	}

	if err != nil {
		printlnFn(errorStyle.Render("Error: " + err.Error()))
	}
	return true
}
