package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal/internal/controller"
	"github.com/noah-isme/sma-portal/internal/models"
	"github.com/noah-isme/sma-portal/internal/session"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

var (
	errNoList   = appErrors.Clone(appErrors.ErrValidation, "no list is open, use 'list <kind>'")
	errNoDetail = appErrors.Clone(appErrors.ErrValidation, "no record is open, use 'open <id>'")
)

func (a *App) requireSession() error {
	if a.session.Actor() == nil {
		return session.ErrNotLoggedIn
	}
	if a.session.Expired() {
		a.closeScreens()
		a.session.Logout()
		return appErrors.Clone(appErrors.ErrUnauthorized, "session expired, please log in again")
	}
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = a.prompt("Email"); err != nil {
			return err
		}
	}
	password, err := a.promptPassword("Password")
	if err != nil {
		return err
	}

	a.closeScreens()
	actor, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.println(successStyle.Render(fmt.Sprintf("Welcome, %s.", actor.DisplayName())))
	a.renderKinds()
	return nil
}

func (a *App) register(ctx context.Context) error {
	var req models.RegistrationRequest
	steps := []struct {
		label  string
		secret bool
		dest   *string
	}{
		{"First name", false, &req.FirstName},
		{"Last name", false, &req.LastName},
		{"Email", false, &req.Email},
		{"Phone", false, &req.Phone},
		{"Password", true, &req.Password},
		{"Confirm password", true, &req.ConfirmPassword},
		{"Grade (optional)", false, &req.Grade},
	}
	for _, step := range steps {
		var err error
		if step.secret {
			*step.dest, err = a.promptPassword(step.label)
		} else {
			*step.dest, err = a.prompt(step.label)
		}
		if err != nil {
			return err
		}
	}
	role, err := a.prompt("Role [student/teacher/admin] (student)")
	if err != nil {
		return err
	}
	req.Role = models.Role(strings.ToLower(strings.TrimSpace(role)))

	actor, err := a.session.Register(ctx, req)
	if err != nil {
		return err
	}
	a.println(successStyle.Render(fmt.Sprintf("Account created for %s. You can now log in.", actor.DisplayName())))
	return nil
}

func (a *App) openList(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.renderKinds()
		return nil
	}
	kind, ok := models.ParseKind(args[0])
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown record kind %q", args[0]))
	}

	a.closeScreens()
	a.list = controller.NewList(kind, a.gateway, a.session, controller.ListOptions{
		Fallback:  a.fallback,
		Validator: a.validator,
		Logger:    a.logger,
	})
	a.list.Start(ctx, nil)
	a.renderList()
	return nil
}

func (a *App) setRole(ctx context.Context, args []string) error {
	if a.list == nil {
		return errNoList
	}
	if len(args) != 1 {
		return appErrors.Clone(appErrors.ErrValidation, "usage: role <student|teacher|admin>")
	}
	if err := a.list.SetRole(ctx, models.Role(strings.ToLower(args[0]))); err != nil {
		return err
	}
	a.renderList()
	return nil
}

func (a *App) setGrade(ctx context.Context, args []string) error {
	if a.list == nil {
		return errNoList
	}
	if len(args) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "usage: grade <grade>")
	}
	if err := a.list.SetGrade(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	a.renderList()
	return nil
}

func (a *App) refresh(ctx context.Context) error {
	if a.list == nil {
		return errNoList
	}
	a.list.Refresh(ctx)
	a.renderList()
	return nil
}

func (a *App) open(args []string) error {
	if a.list == nil {
		return errNoList
	}
	if len(args) != 1 {
		return appErrors.Clone(appErrors.ErrValidation, "usage: open <id>")
	}
	if a.detail != nil {
		a.detail.Close()
	}
	detail, err := a.list.Open(args[0])
	if err != nil {
		return err
	}
	a.detail = detail
	a.renderDetail()
	return nil
}

func (a *App) edit() error {
	if a.detail == nil {
		return errNoDetail
	}
	if err := a.detail.Edit(); err != nil {
		return err
	}
	a.renderDetail()
	return nil
}

func (a *App) set(args []string) error {
	if a.detail == nil {
		return errNoDetail
	}
	if len(args) < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "usage: set <field> <value>")
	}
	return a.detail.SetField(args[0], strings.Join(args[1:], " "))
}

func (a *App) save(ctx context.Context) error {
	if a.detail == nil {
		return errNoDetail
	}
	if err := a.detail.Save(ctx); err != nil {
		if errs := a.detail.FieldErrors(); len(errs) > 0 {
			a.renderFieldErrors(errs)
			return nil
		}
		return err
	}
	a.syncProfile(a.detail.Record())
	a.println(successStyle.Render("Saved."))
	a.renderDetail()
	return nil
}

// syncProfile pushes a saved profile of the signed-in user into the session.
func (a *App) syncProfile(rec models.Record) {
	actor := a.session.Actor()
	if rec.Kind != models.KindProfile || actor == nil || rec.ID != actor.ID {
		return
	}
	if v := rec.Fields.Text("firstName"); v != "" {
		actor.FirstName = v
	}
	if v := rec.Fields.Text("lastName"); v != "" {
		actor.LastName = v
	}
	if v := rec.Fields.Text("email"); v != "" {
		actor.Email = v
	}
	if v := rec.Fields.Text("contactNumber"); v != "" {
		actor.Phone = v
	}
	a.session.UpdateActor(*actor)
	a.logger.Debug("session profile refreshed", zap.String("user_id", actor.ID))
}

func (a *App) cancel() error {
	if a.detail == nil {
		return errNoDetail
	}
	if err := a.detail.Cancel(); err != nil {
		return err
	}
	a.renderDetail()
	return nil
}

func (a *App) delete(ctx context.Context) error {
	if a.detail == nil {
		return errNoDetail
	}
	if err := a.detail.RequestDelete(); err != nil {
		return err
	}
	answer, err := a.prompt("Delete this record? [y/N]")
	if err != nil {
		_ = a.detail.ConfirmDelete(ctx, false)
		return err
	}
	yes := strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
	if err := a.detail.ConfirmDelete(ctx, yes); err != nil {
		return err
	}
	if !yes {
		a.println("Delete cancelled.")
		return nil
	}
	a.detail = nil
	a.println(successStyle.Render("Deleted."))
	a.renderList()
	return nil
}

func (a *App) back() error {
	if a.detail == nil {
		if a.list == nil {
			return errNoList
		}
		a.list.Close()
		a.list = nil
		a.renderKinds()
		return nil
	}
	a.detail.Close()
	a.detail = nil
	a.renderList()
	return nil
}

func (a *App) printError(err error) {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		a.println(errorStyle.Render("Error: " + appErr.Message))
		return
	}
	a.println(errorStyle.Render("Error: " + err.Error()))
}
