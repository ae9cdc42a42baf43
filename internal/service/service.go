package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Raheem-Baig1210/Practice-sub000/internal/auth"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/cache"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/config"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/crypto"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/model"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/repository"
)

// Error kinds the HTTP layer maps to status codes. Anything not matching
// one of these is an internal fault and surfaces as a 500.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
)

// Store is the persistence surface the flows need. *repository.Store
// satisfies it; tests substitute a stub.
type Store interface {
	CreateAdmin(ctx context.Context, admin model.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (model.Admin, error)
	GetAdminByID(ctx context.Context, adminID string) (model.Admin, error)
	ListAdmins(ctx context.Context, limit int) ([]model.Admin, error)

	CreateSchool(ctx context.Context, school model.School) error
	GetSchoolByEmail(ctx context.Context, email string) (model.School, error)
	GetSchoolByID(ctx context.Context, schoolID string) (model.School, error)
	ListSchools(ctx context.Context, limit int) ([]model.School, error)
	UpdateSchool(ctx context.Context, schoolID string, update repository.SchoolUpdate) (model.School, error)
	DeleteSchool(ctx context.Context, schoolID string) (bool, error)

	CreateTeacher(ctx context.Context, teacher model.Teacher) error
	GetTeacherByID(ctx context.Context, teacherID string) (model.Teacher, error)
	ListTeachersBySchool(ctx context.Context, schoolID string, limit int) ([]model.Teacher, error)
	UpdateTeacher(ctx context.Context, teacherID string, update repository.TeacherUpdate) (model.Teacher, error)
	DeleteTeacher(ctx context.Context, teacherID string) (bool, error)

	CreateStudent(ctx context.Context, student model.Student) error
	GetStudentByID(ctx context.Context, studentID string) (model.Student, error)
	ListStudentsBySchool(ctx context.Context, schoolID string, limit int) ([]model.Student, error)
	UpdateStudent(ctx context.Context, studentID string, update repository.StudentUpdate) (model.Student, error)
	DeleteStudent(ctx context.Context, studentID string) (bool, error)

	CountTeachersBySchool(ctx context.Context, schoolID string) (int64, error)
	CountStudentsBySchool(ctx context.Context, schoolID string) (int64, error)
}

type Service struct {
	cfg   config.Config
	store Store
	stats *cache.StatsCache
}

func New(cfg config.Config, store Store, stats *cache.StatsCache) *Service {
	return &Service{cfg: cfg, store: store, stats: stats}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	ID     string `json:"id"`
	Tokens string `json:"tokens"`
}

func (c Credentials) validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

func (s *Service) LoginAdmin(ctx context.Context, creds Credentials) (LoginResult, error) {
	if err := creds.validate(); err != nil {
		return LoginResult{}, err
	}

	admin, err := s.store.GetAdminByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LoginResult{}, fmt.Errorf("admin: %w", ErrNotFound)
		}
		return LoginResult{}, fmt.Errorf("admin lookup: %w", err)
	}

	if err := crypto.CheckPassword(admin.PasswordHash, creds.Password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(admin.ID, admin.Email, admin.Name)
	if err != nil {
		return LoginResult{}, fmt.Errorf("token issue: %w", err)
	}
	return LoginResult{ID: admin.ID, Tokens: token}, nil
}

func (s *Service) LoginSchool(ctx context.Context, creds Credentials) (LoginResult, error) {
	if err := creds.validate(); err != nil {
		return LoginResult{}, err
	}

	school, err := s.store.GetSchoolByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LoginResult{}, fmt.Errorf("school: %w", ErrNotFound)
		}
		return LoginResult{}, fmt.Errorf("school lookup: %w", err)
	}

	if err := crypto.CheckPassword(school.PasswordHash, creds.Password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(school.ID, school.Email, school.Name)
	if err != nil {
		return LoginResult{}, fmt.Errorf("token issue: %w", err)
	}
	return LoginResult{ID: school.ID, Tokens: token}, nil
}

func (s *Service) issueToken(actorID, email, name string) (string, error) {
	return auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		ActorID: actorID,
		Email:   email,
		Name:    name,
	})
}

type RegisterAdminInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

func (s *Service) RegisterAdmin(ctx context.Context, input RegisterAdminInput) (string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" {
		return "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Email == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	if input.Password == "" {
		return "", fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return "", fmt.Errorf("password hash: %w", err)
	}

	now := time.Now().UTC()
	admin := model.Admin{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", fmt.Errorf("admin: %w", ErrDuplicateEmail)
		}
		return "", fmt.Errorf("admin create: %w", err)
	}
	return admin.ID, nil
}

func (s *Service) ListAdmins(ctx context.Context, limit int) ([]model.Admin, error) {
	return s.store.ListAdmins(ctx, limit)
}

type CreateSchoolInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Password string
}

func (s *Service) CreateSchool(ctx context.Context, input CreateSchoolInput) (model.School, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" {
		return model.School{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Email == "" {
		return model.School{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if input.Password == "" {
		return model.School{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return model.School{}, fmt.Errorf("password hash: %w", err)
	}

	now := time.Now().UTC()
	school := model.School{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateSchool(ctx, school); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.School{}, fmt.Errorf("school: %w", ErrDuplicateEmail)
		}
		return model.School{}, fmt.Errorf("school create: %w", err)
	}
	return school, nil
}

func (s *Service) GetSchool(ctx context.Context, schoolID string) (model.School, error) {
	school, err := s.store.GetSchoolByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.School{}, fmt.Errorf("school: %w", ErrNotFound)
		}
		return model.School{}, err
	}
	return school, nil
}

func (s *Service) ListSchools(ctx context.Context, limit int) ([]model.School, error) {
	return s.store.ListSchools(ctx, limit)
}

type UpdateSchoolInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	Password *string
	Active   *bool
}

func (s *Service) UpdateSchool(ctx context.Context, schoolID string, input UpdateSchoolInput) (model.School, error) {
	update := repository.SchoolUpdate{
		Phone:   input.Phone,
		Address: input.Address,
		Active:  input.Active,
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name != "" {
			update.Name = &name
		}
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != "" {
			update.Email = &email
		}
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := crypto.HashPassword(*input.Password)
		if err != nil {
			return model.School{}, fmt.Errorf("password hash: %w", err)
		}
		update.PasswordHash = &hash
	}

	school, err := s.store.UpdateSchool(ctx, schoolID, update)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return model.School{}, fmt.Errorf("school: %w", ErrNotFound)
		case errors.Is(err, repository.ErrDuplicate):
			return model.School{}, fmt.Errorf("school: %w", ErrDuplicateEmail)
		}
		return model.School{}, err
	}
	return school, nil
}

func (s *Service) DeleteSchool(ctx context.Context, schoolID string) error {
	deleted, err := s.store.DeleteSchool(ctx, schoolID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("school: %w", ErrNotFound)
	}
	s.stats.Invalidate(ctx, schoolID)
	return nil
}

type CreateTeacherInput struct {
	SchoolID string
	Name     string
	Email    string
	Phone    string
	Subject  string
}

func (s *Service) CreateTeacher(ctx context.Context, input CreateTeacherInput) (model.Teacher, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.SchoolID == "" {
		return model.Teacher{}, fmt.Errorf("%w: school is required", ErrValidation)
	}
	if input.Name == "" {
		return model.Teacher{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Email == "" {
		return model.Teacher{}, fmt.Errorf("%w: email is required", ErrValidation)
	}

	now := time.Now().UTC()
	teacher := model.Teacher{
		ID:        uuid.NewString(),
		SchoolID:  input.SchoolID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Subject:   input.Subject,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateTeacher(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Teacher{}, fmt.Errorf("teacher: %w", ErrDuplicateEmail)
		}
		return model.Teacher{}, fmt.Errorf("teacher create: %w", err)
	}
	s.stats.Invalidate(ctx, teacher.SchoolID)
	return teacher, nil
}

func (s *Service) GetTeacher(ctx context.Context, teacherID string) (model.Teacher, error) {
	teacher, err := s.store.GetTeacherByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Teacher{}, fmt.Errorf("teacher: %w", ErrNotFound)
		}
		return model.Teacher{}, err
	}
	return teacher, nil
}

func (s *Service) ListTeachers(ctx context.Context, schoolID string, limit int) ([]model.Teacher, error) {
	return s.store.ListTeachersBySchool(ctx, schoolID, limit)
}

type UpdateTeacherInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Subject *string
}

func (s *Service) UpdateTeacher(ctx context.Context, teacherID string, input UpdateTeacherInput) (model.Teacher, error) {
	update := repository.TeacherUpdate{
		Phone:   input.Phone,
		Subject: input.Subject,
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name != "" {
			update.Name = &name
		}
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != "" {
			update.Email = &email
		}
	}

	teacher, err := s.store.UpdateTeacher(ctx, teacherID, update)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return model.Teacher{}, fmt.Errorf("teacher: %w", ErrNotFound)
		case errors.Is(err, repository.ErrDuplicate):
			return model.Teacher{}, fmt.Errorf("teacher: %w", ErrDuplicateEmail)
		}
		return model.Teacher{}, err
	}
	return teacher, nil
}

func (s *Service) DeleteTeacher(ctx context.Context, teacherID string) error {
	teacher, err := s.store.GetTeacherByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("teacher: %w", ErrNotFound)
		}
		return err
	}
	deleted, err := s.store.DeleteTeacher(ctx, teacherID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("teacher: %w", ErrNotFound)
	}
	s.stats.Invalidate(ctx, teacher.SchoolID)
	return nil
}

type CreateStudentInput struct {
	SchoolID string
	Name     string
	Email    string
	Phone    string
	Class    string
}

func (s *Service) CreateStudent(ctx context.Context, input CreateStudentInput) (model.Student, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.SchoolID == "" {
		return model.Student{}, fmt.Errorf("%w: school is required", ErrValidation)
	}
	if input.Name == "" {
		return model.Student{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Email == "" {
		return model.Student{}, fmt.Errorf("%w: email is required", ErrValidation)
	}

	now := time.Now().UTC()
	student := model.Student{
		ID:        uuid.NewString(),
		SchoolID:  input.SchoolID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Class:     input.Class,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateStudent(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Student{}, fmt.Errorf("student: %w", ErrDuplicateEmail)
		}
		return model.Student{}, fmt.Errorf("student create: %w", err)
	}
	s.stats.Invalidate(ctx, student.SchoolID)
	return student, nil
}

func (s *Service) GetStudent(ctx context.Context, studentID string) (model.Student, error) {
	student, err := s.store.GetStudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Student{}, fmt.Errorf("student: %w", ErrNotFound)
		}
		return model.Student{}, err
	}
	return student, nil
}

func (s *Service) ListStudents(ctx context.Context, schoolID string, limit int) ([]model.Student, error) {
	return s.store.ListStudentsBySchool(ctx, schoolID, limit)
}

type UpdateStudentInput struct {
	Name  *string
	Email *string
	Phone *string
	Class *string
}

func (s *Service) UpdateStudent(ctx context.Context, studentID string, input UpdateStudentInput) (model.Student, error) {
	update := repository.StudentUpdate{
		Phone: input.Phone,
		Class: input.Class,
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name != "" {
			update.Name = &name
		}
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != "" {
			update.Email = &email
		}
	}

	student, err := s.store.UpdateStudent(ctx, studentID, update)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return model.Student{}, fmt.Errorf("student: %w", ErrNotFound)
		case errors.Is(err, repository.ErrDuplicate):
			return model.Student{}, fmt.Errorf("student: %w", ErrDuplicateEmail)
		}
		return model.Student{}, err
	}
	return student, nil
}

func (s *Service) DeleteStudent(ctx context.Context, studentID string) error {
	student, err := s.store.GetStudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("student: %w", ErrNotFound)
		}
		return err
	}
	deleted, err := s.store.DeleteStudent(ctx, studentID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("student: %w", ErrNotFound)
	}
	s.stats.Invalidate(ctx, student.SchoolID)
	return nil
}

// SchoolStats reads the dashboard counters, preferring the redis cache.
// A cold or unavailable cache falls through to SQL counts.
func (s *Service) SchoolStats(ctx context.Context, schoolID string) (model.SchoolStats, error) {
	if stats, ok := s.stats.Get(ctx, schoolID); ok {
		return stats, nil
	}

	if _, err := s.store.GetSchoolByID(ctx, schoolID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SchoolStats{}, fmt.Errorf("school: %w", ErrNotFound)
		}
		return model.SchoolStats{}, err
	}

	teachers, err := s.store.CountTeachersBySchool(ctx, schoolID)
	if err != nil {
		return model.SchoolStats{}, err
	}
	students, err := s.store.CountStudentsBySchool(ctx, schoolID)
	if err != nil {
		return model.SchoolStats{}, err
	}

	stats := model.SchoolStats{SchoolID: schoolID, TeacherCount: teachers, StudentCount: students}
	s.stats.Set(ctx, stats)
	return stats, nil
}
