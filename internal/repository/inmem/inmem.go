// Package inmem provides a map-backed store for tests and local
// development without Postgres. It mirrors the error contract of the pgx
// store: pgx.ErrNoRows for missing rows, repository.ErrDuplicate for
// email collisions.
package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Raheem-Baig1210/Practice-sub000/internal/model"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/repository"
)

type Store struct {
	mu       sync.RWMutex
	admins   map[string]model.Admin
	schools  map[string]model.School
	teachers map[string]model.Teacher
	students map[string]model.Student
}

func NewStore() *Store {
	return &Store{
		admins:   map[string]model.Admin{},
		schools:  map[string]model.School{},
		teachers: map[string]model.Teacher{},
		students: map[string]model.Student{},
	}
}

func (s *Store) CreateAdmin(_ context.Context, admin model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.admins {
		if existing.Email == admin.Email {
			return repository.ErrDuplicate
		}
	}
	s.admins[admin.ID] = admin
	return nil
}

func (s *Store) GetAdminByEmail(_ context.Context, email string) (model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, admin := range s.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return model.Admin{}, pgx.ErrNoRows
}

func (s *Store) GetAdminByID(_ context.Context, adminID string) (model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[adminID]
	if !ok {
		return model.Admin{}, pgx.ErrNoRows
	}
	return admin, nil
}

func (s *Store) ListAdmins(_ context.Context, limit int) ([]model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admins := make([]model.Admin, 0, len(s.admins))
	for _, admin := range s.admins {
		admins = append(admins, admin)
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].CreatedAt.Before(admins[j].CreatedAt) })
	return clip(admins, limit), nil
}

func (s *Store) CreateSchool(_ context.Context, school model.School) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.schools {
		if existing.Email == school.Email {
			return repository.ErrDuplicate
		}
	}
	s.schools[school.ID] = school
	return nil
}

func (s *Store) GetSchoolByEmail(_ context.Context, email string) (model.School, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, school := range s.schools {
		if school.Email == email {
			return school, nil
		}
	}
	return model.School{}, pgx.ErrNoRows
}

func (s *Store) GetSchoolByID(_ context.Context, schoolID string) (model.School, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	school, ok := s.schools[schoolID]
	if !ok {
		return model.School{}, pgx.ErrNoRows
	}
	return school, nil
}

func (s *Store) ListSchools(_ context.Context, limit int) ([]model.School, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schools := make([]model.School, 0, len(s.schools))
	for _, school := range s.schools {
		schools = append(schools, school)
	}
	sort.Slice(schools, func(i, j int) bool { return schools[i].CreatedAt.Before(schools[j].CreatedAt) })
	return clip(schools, limit), nil
}

func (s *Store) UpdateSchool(_ context.Context, schoolID string, update repository.SchoolUpdate) (model.School, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	school, ok := s.schools[schoolID]
	if !ok {
		return model.School{}, pgx.ErrNoRows
	}
	if update.Email != nil {
		for id, existing := range s.schools {
			if id != schoolID && existing.Email == *update.Email {
				return model.School{}, repository.ErrDuplicate
			}
		}
		school.Email = *update.Email
	}
	if update.Name != nil {
		school.Name = *update.Name
	}
	if update.Phone != nil {
		school.Phone = *update.Phone
	}
	if update.Address != nil {
		school.Address = *update.Address
	}
	if update.PasswordHash != nil {
		school.PasswordHash = *update.PasswordHash
	}
	if update.Active != nil {
		school.Active = *update.Active
	}
	school.UpdatedAt = time.Now().UTC()
	s.schools[schoolID] = school
	return school, nil
}

func (s *Store) DeleteSchool(_ context.Context, schoolID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schools[schoolID]; !ok {
		return false, nil
	}
	delete(s.schools, schoolID)
	return true, nil
}

func (s *Store) CreateTeacher(_ context.Context, teacher model.Teacher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.teachers {
		if existing.Email == teacher.Email {
			return repository.ErrDuplicate
		}
	}
	s.teachers[teacher.ID] = teacher
	return nil
}

func (s *Store) GetTeacherByID(_ context.Context, teacherID string) (model.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teacher, ok := s.teachers[teacherID]
	if !ok {
		return model.Teacher{}, pgx.ErrNoRows
	}
	return teacher, nil
}

func (s *Store) ListTeachersBySchool(_ context.Context, schoolID string, limit int) ([]model.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var teachers []model.Teacher
	for _, teacher := range s.teachers {
		if teacher.SchoolID == schoolID {
			teachers = append(teachers, teacher)
		}
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].CreatedAt.Before(teachers[j].CreatedAt) })
	return clip(teachers, limit), nil
}

func (s *Store) UpdateTeacher(_ context.Context, teacherID string, update repository.TeacherUpdate) (model.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	teacher, ok := s.teachers[teacherID]
	if !ok {
		return model.Teacher{}, pgx.ErrNoRows
	}
	if update.Email != nil {
		for id, existing := range s.teachers {
			if id != teacherID && existing.Email == *update.Email {
				return model.Teacher{}, repository.ErrDuplicate
			}
		}
		teacher.Email = *update.Email
	}
	if update.Name != nil {
		teacher.Name = *update.Name
	}
	if update.Phone != nil {
		teacher.Phone = *update.Phone
	}
	if update.Subject != nil {
		teacher.Subject = *update.Subject
	}
	teacher.UpdatedAt = time.Now().UTC()
	s.teachers[teacherID] = teacher
	return teacher, nil
}

func (s *Store) DeleteTeacher(_ context.Context, teacherID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[teacherID]; !ok {
		return false, nil
	}
	delete(s.teachers, teacherID)
	return true, nil
}

func (s *Store) CreateStudent(_ context.Context, student model.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.students {
		if existing.Email == student.Email {
			return repository.ErrDuplicate
		}
	}
	s.students[student.ID] = student
	return nil
}

func (s *Store) GetStudentByID(_ context.Context, studentID string) (model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[studentID]
	if !ok {
		return model.Student{}, pgx.ErrNoRows
	}
	return student, nil
}

func (s *Store) ListStudentsBySchool(_ context.Context, schoolID string, limit int) ([]model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var students []model.Student
	for _, student := range s.students {
		if student.SchoolID == schoolID {
			students = append(students, student)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].CreatedAt.Before(students[j].CreatedAt) })
	return clip(students, limit), nil
}

func (s *Store) UpdateStudent(_ context.Context, studentID string, update repository.StudentUpdate) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[studentID]
	if !ok {
		return model.Student{}, pgx.ErrNoRows
	}
	if update.Email != nil {
		for id, existing := range s.students {
			if id != studentID && existing.Email == *update.Email {
				return model.Student{}, repository.ErrDuplicate
			}
		}
		student.Email = *update.Email
	}
	if update.Name != nil {
		student.Name = *update.Name
	}
	if update.Phone != nil {
		student.Phone = *update.Phone
	}
	if update.Class != nil {
		student.Class = *update.Class
	}
	student.UpdatedAt = time.Now().UTC()
	s.students[studentID] = student
	return student, nil
}

func (s *Store) DeleteStudent(_ context.Context, studentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[studentID]; !ok {
		return false, nil
	}
	delete(s.students, studentID)
	return true, nil
}

func (s *Store) CountTeachersBySchool(_ context.Context, schoolID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, teacher := range s.teachers {
		if teacher.SchoolID == schoolID {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountStudentsBySchool(_ context.Context, schoolID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, student := range s.students {
		if student.SchoolID == schoolID {
			count++
		}
	}
	return count, nil
}

func clip[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
