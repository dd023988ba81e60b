package main

import (
	"context"
	"time"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(email, first, last, pwd string, isAdmin bool) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Email:     email,
			Role:      user.RoleAlumni,
			CreatedAt: now,
		}
	}
	if first != "" {
		usr.FirstName = core.CleanString(first)
	}
	if last != "" {
		usr.LastName = core.CleanString(last)
	}
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	active := true
	usr.IsActive = &active
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = now

	if usr.ID == "" {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	return err
}
