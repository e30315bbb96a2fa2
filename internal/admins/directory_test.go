package admins

import (
	"context"
	"testing"

	"github.com/swaroop-public12/dresscatalogue/internal/sheets"
)

func TestSignUpCreatesTableAndVerifies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := sheets.NewMemStore()
	d := NewDirectory(store, "admins")

	if err := d.SignUp(ctx, "juliette", "s3cret"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	header, err := store.Header(ctx, "admins")
	if err != nil {
		t.Fatalf("Header after SignUp: %v", err)
	}
	if len(header) != 2 || header[0] != "username" || header[1] != "hashed_password" {
		t.Errorf("created header: got %v, want [username hashed_password]", header)
	}

	ok, err := d.VerifyLogin(ctx, "juliette", "s3cret")
	if err != nil {
		t.Fatalf("VerifyLogin: %v", err)
	}
	if !ok {
		t.Error("VerifyLogin with the signed-up password: got false, want true")
	}

	// One changed character flips the result.
	ok, err = d.VerifyLogin(ctx, "juliette", "s3cres")
	if err != nil {
		t.Fatalf("VerifyLogin: %v", err)
	}
	if ok {
		t.Error("VerifyLogin with a wrong password: got true, want false")
	}
}

func TestSignUpDoesNotStorePlaintext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := sheets.NewMemStore()
	d := NewDirectory(store, "admins")

	if err := d.SignUp(ctx, "juliette", "s3cret"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	rows, err := store.Rows(ctx, "admins")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0][1] == "s3cret" || rows[0][1] == "" {
		t.Errorf("stored hash %q must be neither empty nor the plaintext password", rows[0][1])
	}
}

func TestExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := sheets.NewMemStore()
	d := NewDirectory(store, "admins")

	// Missing table means "does not exist", not a failure.
	ok, err := d.Exists(ctx, "juliette")
	if err != nil {
		t.Fatalf("Exists with missing table: %v", err)
	}
	if ok {
		t.Error("Exists with missing table: got true, want false")
	}

	if err := d.SignUp(ctx, "juliette", "pw"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	ok, err = d.Exists(ctx, "  juliette  ")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Error("Exists should trim the lookup username")
	}

	ok, _ = d.Exists(ctx, "Juliette")
	if ok {
		t.Error("Exists is case-sensitive: got true for a differently-cased name")
	}
}

func TestVerifyLoginMissingTableFailsClosed(t *testing.T) {
	t.Parallel()
	d := NewDirectory(sheets.NewMemStore(), "admins")

	ok, err := d.VerifyLogin(context.Background(), "anyone", "anything")
	if err != nil {
		t.Fatalf("VerifyLogin with missing table: %v", err)
	}
	if ok {
		t.Error("VerifyLogin with missing table: got true, want false")
	}
}

func TestSignUpRejectsEmptyUsername(t *testing.T) {
	t.Parallel()
	d := NewDirectory(sheets.NewMemStore(), "admins")
	if err := d.SignUp(context.Background(), "   ", "pw"); err == nil {
		t.Error("SignUp with blank username: got nil error, want error")
	}
}
