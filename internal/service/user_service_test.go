package service

import (
	"errors"
	"testing"

	"github.com/faanskit/flygprov/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	created, err := svc.Create(model.RoleStudent, "anna")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.TempPassword == "" {
		t.Fatal("no temporary password returned")
	}

	stored, err := repo.FindByID(created.ID)
	if err != nil {
		t.Fatalf("loading created account: %v", err)
	}
	if stored.Role != model.RoleStudent {
		t.Errorf("role = %q, want %q", stored.Role, model.RoleStudent)
	}
	if !stored.ForcePasswordChange {
		t.Error("ForcePasswordChange not set on a fresh account")
	}
	if stored.Archived {
		t.Error("fresh account is archived")
	}
	// Only the hash is stored, and it must match the returned password.
	if stored.Password == created.TempPassword {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(created.TempPassword)); err != nil {
		t.Errorf("stored hash does not match the returned temporary password: %v", err)
	}
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo(model.User{ID: 1, Username: "anna", Role: model.RoleStudent})
	svc := NewUserService(repo)

	if _, err := svc.Create(model.RoleStudent, "anna"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
	// Taken across roles too: usernames are globally unique.
	if _, err := svc.Create(model.RoleExaminer, "anna"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("cross-role err = %v, want ErrUsernameTaken", err)
	}
}

func TestListUsers(t *testing.T) {
	repo := newFakeUserRepo(
		model.User{ID: 1, Username: "anna", Role: model.RoleStudent},
		model.User{ID: 2, Username: "bjorn", Role: model.RoleStudent, Archived: true},
		model.User{ID: 3, Username: "cecilia", Role: model.RoleExaminer},
	)
	svc := NewUserService(repo)

	tests := []struct {
		name          string
		role          string
		status        string
		wantUsernames map[string]string // username -> status
	}{
		{
			name: "all students", role: model.RoleStudent, status: "",
			wantUsernames: map[string]string{"anna": "active", "bjorn": "archived"},
		},
		{
			name: "active students only", role: model.RoleStudent, status: "active",
			wantUsernames: map[string]string{"anna": "active"},
		},
		{
			name: "archived students only", role: model.RoleStudent, status: "archived",
			wantUsernames: map[string]string{"bjorn": "archived"},
		},
		{
			name: "examiners", role: model.RoleExaminer, status: "",
			wantUsernames: map[string]string{"cecilia": "active"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			accounts, err := svc.List(tc.role, tc.status)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(accounts) != len(tc.wantUsernames) {
				t.Fatalf("got %d accounts, want %d", len(accounts), len(tc.wantUsernames))
			}
			for _, a := range accounts {
				wantStatus, ok := tc.wantUsernames[a.Username]
				if !ok {
					t.Errorf("unexpected account %q", a.Username)
					continue
				}
				if a.Status != wantStatus {
					t.Errorf("%s status = %q, want %q", a.Username, a.Status, wantStatus)
				}
			}
		})
	}
}

func TestSetArchivedRoundTrip(t *testing.T) {
	repo := newFakeUserRepo(model.User{ID: 1, Username: "anna", Role: model.RoleStudent})
	svc := NewUserService(repo)

	if err := svc.SetArchived(model.RoleStudent, 1, true); err != nil {
		t.Fatalf("archive: %v", err)
	}
	stored, _ := repo.FindByID(1)
	if !stored.Archived {
		t.Fatal("account not archived")
	}

	if err := svc.SetArchived(model.RoleStudent, 1, false); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	stored, _ = repo.FindByID(1)
	if stored.Archived {
		t.Fatal("account still archived after reactivation")
	}
}

func TestSetArchivedRoleMismatch(t *testing.T) {
	repo := newFakeUserRepo(model.User{ID: 1, Username: "cecilia", Role: model.RoleExaminer})
	svc := NewUserService(repo)

	// A student endpoint must not touch an examiner account.
	if err := svc.SetArchived(model.RoleStudent, 1, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := svc.SetArchived(model.RoleExaminer, 999, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown ID err = %v, want ErrNotFound", err)
	}
}

func TestResetPassword(t *testing.T) {
	repo := newFakeUserRepo(model.User{ID: 1, Username: "anna", Role: model.RoleStudent, Password: "old-hash"})
	svc := NewUserService(repo)

	result, err := svc.ResetPassword(model.RoleStudent, 1)
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if result.TempPassword == "" {
		t.Fatal("no temporary password returned")
	}

	stored, _ := repo.FindByID(1)
	if stored.Password == "old-hash" {
		t.Error("password hash not rotated")
	}
	if !stored.ForcePasswordChange {
		t.Error("ForcePasswordChange not set after reset")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(result.TempPassword)); err != nil {
		t.Errorf("new hash does not match the returned temporary password: %v", err)
	}

	if _, err := svc.ResetPassword(model.RoleExaminer, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("role mismatch err = %v, want ErrNotFound", err)
	}
}
