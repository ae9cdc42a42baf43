package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Raheem-Baig1210/Practice-sub000/internal/auth"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/cache"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/config"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/crypto"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/model"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/repository/inmem"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "test-issuer",
		AccessTokenTTL: 24 * time.Hour,
	}
}

func newTestService(store Store) *Service {
	return New(testConfig(), store, cache.NewStatsCache(nil, time.Minute))
}

func TestRegisterThenLoginAdmin(t *testing.T) {
	store := inmem.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	id, err := svc.RegisterAdmin(ctx, RegisterAdminInput{
		Name:     "A",
		Email:    "a@x.com",
		Phone:    "123",
		Password: "p1",
	})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected an admin id")
	}

	// Plaintext must never reach the store.
	stored, err := store.GetAdminByID(ctx, id)
	if err != nil {
		t.Fatalf("stored admin missing: %v", err)
	}
	if stored.PasswordHash == "p1" || stored.PasswordHash == "" {
		t.Fatalf("password stored incorrectly: %q", stored.PasswordHash)
	}
	if err := crypto.CheckPassword(stored.PasswordHash, "p1"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	result, err := svc.LoginAdmin(ctx, Credentials{Email: "a@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if result.ID != id {
		t.Fatalf("expected id %s, got %s", id, result.ID)
	}

	claims, err := auth.ParseToken("test-secret", result.Tokens)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.ActorID != id || claims.Email != "a@x.com" || claims.Name != "A" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginAdminWrongPassword(t *testing.T) {
	svc := newTestService(inmem.NewStore())
	ctx := context.Background()

	if _, err := svc.RegisterAdmin(ctx, RegisterAdminInput{Name: "A", Email: "a@x.com", Password: "p1"}); err != nil {
		t.Fatalf("register error: %v", err)
	}

	_, err := svc.LoginAdmin(ctx, Credentials{Email: "a@x.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginAdminUnknownEmail(t *testing.T) {
	svc := newTestService(inmem.NewStore())

	_, err := svc.LoginAdmin(context.Background(), Credentials{Email: "nouser@x.com", Password: "p1"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoginValidation(t *testing.T) {
	svc := newTestService(inmem.NewStore())

	if _, err := svc.LoginAdmin(context.Background(), Credentials{Email: "", Password: "p1"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing email, got %v", err)
	}
	if _, err := svc.LoginSchool(context.Background(), Credentials{Email: "a@x.com", Password: ""}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing password, got %v", err)
	}
}

func TestRegisterAdminDuplicateEmail(t *testing.T) {
	svc := newTestService(inmem.NewStore())
	ctx := context.Background()

	if _, err := svc.RegisterAdmin(ctx, RegisterAdminInput{Name: "A", Email: "a@x.com", Password: "p1"}); err != nil {
		t.Fatalf("first register error: %v", err)
	}
	_, err := svc.RegisterAdmin(ctx, RegisterAdminInput{Name: "B", Email: "a@x.com", Password: "completely-different"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

// faultyStore simulates the backing store being unreachable.
type faultyStore struct {
	*inmem.Store
	err error
}

func (f *faultyStore) GetAdminByEmail(context.Context, string) (model.Admin, error) {
	return model.Admin{}, f.err
}

func TestLoginAdminStoreFault(t *testing.T) {
	store := &faultyStore{Store: inmem.NewStore(), err: errors.New("connection refused")}
	svc := newTestService(store)

	_, err := svc.LoginAdmin(context.Background(), Credentials{Email: "a@x.com", Password: "p1"})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrValidation) {
		t.Fatalf("infrastructure fault must not map to a client error kind, got %v", err)
	}
}

func TestSchoolLoginFlow(t *testing.T) {
	svc := newTestService(inmem.NewStore())
	ctx := context.Background()

	school, err := svc.CreateSchool(ctx, CreateSchoolInput{
		Name:     "Greenfield",
		Email:    "office@greenfield.edu",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("create school error: %v", err)
	}
	if school.PasswordHash == "s3cret" {
		t.Fatalf("school password stored in plaintext")
	}

	result, err := svc.LoginSchool(ctx, Credentials{Email: "office@greenfield.edu", Password: "s3cret"})
	if err != nil {
		t.Fatalf("school login error: %v", err)
	}
	if result.ID != school.ID {
		t.Fatalf("expected id %s, got %s", school.ID, result.ID)
	}

	if _, err := svc.LoginSchool(ctx, Credentials{Email: "office@greenfield.edu", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.LoginSchool(ctx, Credentials{Email: "other@x.com", Password: "s3cret"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSchoolStatsCounts(t *testing.T) {
	svc := newTestService(inmem.NewStore())
	ctx := context.Background()

	school, err := svc.CreateSchool(ctx, CreateSchoolInput{Name: "Greenfield", Email: "office@greenfield.edu", Password: "s3cret"})
	if err != nil {
		t.Fatalf("create school error: %v", err)
	}

	if _, err := svc.CreateTeacher(ctx, CreateTeacherInput{SchoolID: school.ID, Name: "T", Email: "t@greenfield.edu"}); err != nil {
		t.Fatalf("create teacher error: %v", err)
	}
	for _, email := range []string{"s1@greenfield.edu", "s2@greenfield.edu"} {
		if _, err := svc.CreateStudent(ctx, CreateStudentInput{SchoolID: school.ID, Name: "S", Email: email}); err != nil {
			t.Fatalf("create student error: %v", err)
		}
	}

	stats, err := svc.SchoolStats(ctx, school.ID)
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	if stats.TeacherCount != 1 || stats.StudentCount != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if _, err := svc.SchoolStats(ctx, "missing-school"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown school, got %v", err)
	}
}

func TestTeacherLifecycle(t *testing.T) {
	svc := newTestService(inmem.NewStore())
	ctx := context.Background()

	school, err := svc.CreateSchool(ctx, CreateSchoolInput{Name: "Greenfield", Email: "office@greenfield.edu", Password: "s3cret"})
	if err != nil {
		t.Fatalf("create school error: %v", err)
	}

	teacher, err := svc.CreateTeacher(ctx, CreateTeacherInput{SchoolID: school.ID, Name: "T", Email: "t@greenfield.edu", Subject: "Math"})
	if err != nil {
		t.Fatalf("create teacher error: %v", err)
	}

	subject := "Physics"
	updated, err := svc.UpdateTeacher(ctx, teacher.ID, UpdateTeacherInput{Subject: &subject})
	if err != nil {
		t.Fatalf("update teacher error: %v", err)
	}
	if updated.Subject != "Physics" {
		t.Fatalf("expected subject update, got %q", updated.Subject)
	}

	if err := svc.DeleteTeacher(ctx, teacher.ID); err != nil {
		t.Fatalf("delete teacher error: %v", err)
	}
	if _, err := svc.GetTeacher(ctx, teacher.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteTeacher(ctx, teacher.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
