// Package guard holds the single authorization policy applied before every
// action that reveals or mutates private data.
//
// Checks run in the order given and the first failure wins. Callers list
// them as Authenticated, then OwnerIs, then AntiForgery; note actions look the
// note up between the first two so that a missing note reports NotFound.
package guard

import (
	"crypto/subtle"
	"errors"
	"net/url"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

const LoginPath = "/login"

// Check inspects the caller identity and returns nil to permit.
type Check func(id *models.Identity) error

// Denial is a refusal carrying where the caller should be sent next.
// It unwraps to common.ErrorUnauthenticated or common.ErrorForbidden.
type Denial struct {
	Reason   error
	Redirect string
}

func (d *Denial) Error() string {
	return d.Reason.Error()
}

func (d *Denial) Unwrap() error {
	return d.Reason
}

// UserPath is the page of the given user.
func UserPath(username string) string {
	return "/users/" + url.PathEscape(username)
}

// Require runs checks in order and returns the first failure.
func Require(id *models.Identity, checks ...Check) error {
	for _, check := range checks {
		if err := check(id); err != nil {
			return err
		}
	}
	return nil
}

// Authenticated denies anonymous callers and sends them to the login page.
func Authenticated() Check {
	return func(id *models.Identity) error {
		if id == nil || id.Username == "" {
			return &Denial{Reason: common.ErrorUnauthenticated, Redirect: LoginPath}
		}
		return nil
	}
}

// OwnerIs permits only the given user. A denied caller is sent back to their
// own page and learns nothing about the target.
func OwnerIs(username string) Check {
	return func(id *models.Identity) error {
		if err := Authenticated()(id); err != nil {
			return err
		}
		if id.Username != username {
			return &Denial{Reason: common.ErrorForbidden, Redirect: UserPath(id.Username)}
		}
		return nil
	}
}

// AntiForgery compares the submitted token with the session secret.
func AntiForgery(token string) Check {
	return func(id *models.Identity) error {
		if err := Authenticated()(id); err != nil {
			return err
		}
		if token == "" || id.CSRFToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(id.CSRFToken)) != 1 {
			return common.ErrorAntiForgery
		}
		return nil
	}
}

// RedirectOf returns the redirect target of a denial, if err is one.
func RedirectOf(err error) (string, bool) {
	var d *Denial
	if errors.As(err, &d) {
		return d.Redirect, true
	}
	return "", false
}
