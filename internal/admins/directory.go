package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/swaroop-public12/dresscatalogue/internal/sheets"
	"golang.org/x/crypto/bcrypt"
)

// Header of the admins worksheet. The column keeps its historical name even
// though the hash is a bcrypt string rather than a bare digest.
var Header = []string{"username", "hashed_password"}

// Directory stores admin accounts in a worksheet of (username, bcrypt hash)
// rows.
type Directory struct {
	store sheets.Store
	table string
}

func NewDirectory(store sheets.Store, table string) *Directory {
	return &Directory{store: store, table: table}
}

// Exists reports whether an account with the username is present. A missing
// admins worksheet means no accounts, not a failure.
func (d *Directory) Exists(ctx context.Context, username string) (bool, error) {
	rows, err := d.store.Rows(ctx, d.table)
	if err != nil {
		if errors.Is(err, sheets.ErrTableNotFound) {
			return false, nil
		}
		return false, err
	}
	username = strings.TrimSpace(username)
	for _, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) == username {
			return true, nil
		}
	}
	return false, nil
}

// SignUp appends a new account, creating the admins worksheet with its
// header row on first use. Uniqueness is the caller's job via Exists; two
// racing signups can both land.
func (d *Directory) SignUp(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := d.store.Header(ctx, d.table); err != nil {
		if !errors.Is(err, sheets.ErrTableNotFound) {
			return err
		}
		if err := d.store.Create(ctx, d.table, Header); err != nil {
			return fmt.Errorf("create admins table: %w", err)
		}
	}
	return d.store.Append(ctx, d.table, []string{username, string(hash)})
}

// VerifyLogin reports whether the username/password pair matches a stored
// account. Fails closed when the admins worksheet is missing.
func (d *Directory) VerifyLogin(ctx context.Context, username, password string) (bool, error) {
	rows, err := d.store.Rows(ctx, d.table)
	if err != nil {
		if errors.Is(err, sheets.ErrTableNotFound) {
			return false, nil
		}
		return false, err
	}
	username = strings.TrimSpace(username)
	for _, row := range rows {
		if len(row) < 2 || strings.TrimSpace(row[0]) != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(row[1]), []byte(password)) == nil {
			return true, nil
		}
	}
	return false, nil
}
