// Package portal is the terminal front end of the school portal. It drives
// the list and detail controllers from typed commands.
package portal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal/internal/controller"
	"github.com/noah-isme/sma-portal/internal/schema"
	"github.com/noah-isme/sma-portal/internal/session"
	"github.com/noah-isme/sma-portal/pkg/storage"
)

// Options wires the portal to its collaborators.
type Options struct {
	Session  *session.Session
	Gateway  controller.RecordGateway
	Fallback controller.FallbackFunc
	Validate *validator.Validate
	Logger   *zap.Logger

	In  io.Reader
	Out io.Writer
	// ReadPassword reads a secret without echo. When nil, passwords are read
	// as plain lines from In.
	ReadPassword func() ([]byte, error)
	ExportDir    string
}

// App holds the screen stack: at most one list and one detail on top of it.
type App struct {
	session      *session.Session
	gateway      controller.RecordGateway
	fallback     controller.FallbackFunc
	validator    *schema.Validator
	logger       *zap.Logger
	in           *bufio.Reader
	out          io.Writer
	readPassword func() ([]byte, error)
	files        *storage.Local

	list   *controller.List
	detail *controller.Detail
}

// New builds the portal.
func New(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &App{
		session:      opts.Session,
		gateway:      opts.Gateway,
		fallback:     opts.Fallback,
		validator:    schema.NewValidator(opts.Validate),
		logger:       opts.Logger,
		in:           bufio.NewReader(opts.In),
		out:          opts.Out,
		readPassword: opts.ReadPassword,
		files:        storage.NewLocal(opts.ExportDir),
	}
}

// Run reads commands until EOF, "exit" or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.println(titleStyle.Render("SMA Portal") + "  type 'help' for commands")
	for {
		if ctx.Err() != nil {
			a.closeScreens()
			return ctx.Err()
		}
		fmt.Fprintf(a.out, "%s> ", a.status())
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			a.closeScreens()
			if err == io.EOF {
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]
		if cmd == "exit" || cmd == "quit" {
			a.closeScreens()
			a.println("Bye!")
			return nil
		}
		if err := a.dispatch(ctx, cmd, args); err != nil {
			a.printError(err)
		}
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help", "?":
		a.help()
		return nil
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx)
	}

	if err := a.requireSession(); err != nil {
		return err
	}

	switch cmd {
	case "logout":
		a.closeScreens()
		a.session.Logout()
		a.println("Logged out.")
		return nil
	case "whoami":
		a.renderActor()
		return nil
	case "kinds", "menu":
		a.renderKinds()
		return nil
	case "list", "ls":
		return a.openList(ctx, args)
	case "role":
		return a.setRole(ctx, args)
	case "grade":
		return a.setGrade(ctx, args)
	case "refresh":
		return a.refresh(ctx)
	case "open", "show":
		return a.open(args)
	case "edit":
		return a.edit()
	case "set":
		return a.set(args)
	case "save":
		return a.save(ctx)
	case "cancel":
		return a.cancel()
	case "delete", "rm":
		return a.delete(ctx)
	case "back":
		return a.back()
	case "export":
		return a.export(args)
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

func (a *App) status() string {
	actor := a.session.Actor()
	if actor == nil {
		return "guest"
	}
	parts := []string{fmt.Sprintf("%s (%s)", actor.DisplayName(), actor.Role)}
	if a.list != nil {
		parts = append(parts, string(a.list.Kind()))
	}
	if a.detail != nil {
		rec := a.detail.Record()
		parts = append(parts, rec.ID+" ["+a.detail.State().String()+"]")
	}
	return strings.Join(parts, " / ")
}

func (a *App) closeScreens() {
	if a.detail != nil {
		a.detail.Close()
		a.detail = nil
	}
	if a.list != nil {
		a.list.Close()
		a.list = nil
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
