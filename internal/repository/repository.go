package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Raheem-Baig1210/Practice-sub000/internal/model"
)

// ErrDuplicate is returned when an insert or update hits a unique
// constraint, in practice the per-table unique email index.
var ErrDuplicate = errors.New("duplicate value")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateAdmin(ctx context.Context, admin model.Admin) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO admins (id, name, email, phone, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, admin.ID, admin.Name, admin.Email, admin.Phone, admin.PasswordHash, admin.Active, admin.CreatedAt, admin.UpdatedAt)
	return wrapConstraint(err)
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	var admin model.Admin
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, password_hash, active, created_at, updated_at
		FROM admins
		WHERE email = $1
	`, email)
	err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.Phone,
		&admin.PasswordHash,
		&admin.Active,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	return admin, err
}

func (s *Store) GetAdminByID(ctx context.Context, adminID string) (model.Admin, error) {
	var admin model.Admin
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, password_hash, active, created_at, updated_at
		FROM admins
		WHERE id = $1
	`, adminID)
	err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.Phone,
		&admin.PasswordHash,
		&admin.Active,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	return admin, err
}

func (s *Store) ListAdmins(ctx context.Context, limit int) ([]model.Admin, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, password_hash, active, created_at, updated_at
		FROM admins
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		var admin model.Admin
		if err := rows.Scan(
			&admin.ID,
			&admin.Name,
			&admin.Email,
			&admin.Phone,
			&admin.PasswordHash,
			&admin.Active,
			&admin.CreatedAt,
			&admin.UpdatedAt,
		); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

func (s *Store) CreateSchool(ctx context.Context, school model.School) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO schools (id, name, email, phone, address, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, school.ID, school.Name, school.Email, school.Phone, school.Address, school.PasswordHash, school.Active, school.CreatedAt, school.UpdatedAt)
	return wrapConstraint(err)
}

func (s *Store) GetSchoolByEmail(ctx context.Context, email string) (model.School, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, address, password_hash, active, created_at, updated_at
		FROM schools
		WHERE email = $1
	`, email)
	return scanSchool(row)
}

func (s *Store) GetSchoolByID(ctx context.Context, schoolID string) (model.School, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, address, password_hash, active, created_at, updated_at
		FROM schools
		WHERE id = $1
	`, schoolID)
	return scanSchool(row)
}

func (s *Store) ListSchools(ctx context.Context, limit int) ([]model.School, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, address, password_hash, active, created_at, updated_at
		FROM schools
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schools []model.School
	for rows.Next() {
		school, err := scanSchool(rows)
		if err != nil {
			return nil, err
		}
		schools = append(schools, school)
	}
	return schools, rows.Err()
}

type SchoolUpdate struct {
	Name         *string
	Email        *string
	Phone        *string
	Address      *string
	PasswordHash *string
	Active       *bool
}

func (s *Store) UpdateSchool(ctx context.Context, schoolID string, update SchoolUpdate) (model.School, error) {
	set := setClauses()
	set.add("name", update.Name)
	set.add("email", update.Email)
	set.add("phone", update.Phone)
	set.add("address", update.Address)
	set.add("password_hash", update.PasswordHash)
	set.add("active", update.Active)

	query := fmt.Sprintf(`
		UPDATE schools
		SET %s
		WHERE id = $%d
		RETURNING id, name, email, phone, address, password_hash, active, created_at, updated_at
	`, set.sql(), set.next())
	row := s.pool.QueryRow(ctx, query, append(set.args, schoolID)...)
	school, err := scanSchool(row)
	return school, wrapConstraint(err)
}

func (s *Store) DeleteSchool(ctx context.Context, schoolID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM schools WHERE id = $1`, schoolID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CreateTeacher(ctx context.Context, teacher model.Teacher) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO teachers (id, school_id, name, email, phone, subject, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, teacher.ID, teacher.SchoolID, teacher.Name, teacher.Email, teacher.Phone, teacher.Subject, teacher.CreatedAt, teacher.UpdatedAt)
	return wrapConstraint(err)
}

func (s *Store) GetTeacherByID(ctx context.Context, teacherID string) (model.Teacher, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, school_id, name, email, phone, subject, created_at, updated_at
		FROM teachers
		WHERE id = $1
	`, teacherID)
	return scanTeacher(row)
}

func (s *Store) ListTeachersBySchool(ctx context.Context, schoolID string, limit int) ([]model.Teacher, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, name, email, phone, subject, created_at, updated_at
		FROM teachers
		WHERE school_id = $1
		ORDER BY created_at
		LIMIT $2
	`, schoolID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []model.Teacher
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, teacher)
	}
	return teachers, rows.Err()
}

type TeacherUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Subject *string
}

func (s *Store) UpdateTeacher(ctx context.Context, teacherID string, update TeacherUpdate) (model.Teacher, error) {
	set := setClauses()
	set.add("name", update.Name)
	set.add("email", update.Email)
	set.add("phone", update.Phone)
	set.add("subject", update.Subject)

	query := fmt.Sprintf(`
		UPDATE teachers
		SET %s
		WHERE id = $%d
		RETURNING id, school_id, name, email, phone, subject, created_at, updated_at
	`, set.sql(), set.next())
	row := s.pool.QueryRow(ctx, query, append(set.args, teacherID)...)
	teacher, err := scanTeacher(row)
	return teacher, wrapConstraint(err)
}

func (s *Store) DeleteTeacher(ctx context.Context, teacherID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, teacherID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CreateStudent(ctx context.Context, student model.Student) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO students (id, school_id, name, email, phone, class, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, student.ID, student.SchoolID, student.Name, student.Email, student.Phone, student.Class, student.CreatedAt, student.UpdatedAt)
	return wrapConstraint(err)
}

func (s *Store) GetStudentByID(ctx context.Context, studentID string) (model.Student, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, school_id, name, email, phone, class, created_at, updated_at
		FROM students
		WHERE id = $1
	`, studentID)
	return scanStudent(row)
}

func (s *Store) ListStudentsBySchool(ctx context.Context, schoolID string, limit int) ([]model.Student, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, name, email, phone, class, created_at, updated_at
		FROM students
		WHERE school_id = $1
		ORDER BY created_at
		LIMIT $2
	`, schoolID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

type StudentUpdate struct {
	Name  *string
	Email *string
	Phone *string
	Class *string
}

func (s *Store) UpdateStudent(ctx context.Context, studentID string, update StudentUpdate) (model.Student, error) {
	set := setClauses()
	set.add("name", update.Name)
	set.add("email", update.Email)
	set.add("phone", update.Phone)
	set.add("class", update.Class)

	query := fmt.Sprintf(`
		UPDATE students
		SET %s
		WHERE id = $%d
		RETURNING id, school_id, name, email, phone, class, created_at, updated_at
	`, set.sql(), set.next())
	row := s.pool.QueryRow(ctx, query, append(set.args, studentID)...)
	student, err := scanStudent(row)
	return student, wrapConstraint(err)
}

func (s *Store) DeleteStudent(ctx context.Context, studentID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, studentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CountTeachersBySchool(ctx context.Context, schoolID string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM teachers WHERE school_id = $1`, schoolID).Scan(&count)
	return count, err
}

func (s *Store) CountStudentsBySchool(ctx context.Context, schoolID string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE school_id = $1`, schoolID).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchool(row rowScanner) (model.School, error) {
	var school model.School
	err := row.Scan(
		&school.ID,
		&school.Name,
		&school.Email,
		&school.Phone,
		&school.Address,
		&school.PasswordHash,
		&school.Active,
		&school.CreatedAt,
		&school.UpdatedAt,
	)
	return school, err
}

func scanTeacher(row rowScanner) (model.Teacher, error) {
	var teacher model.Teacher
	err := row.Scan(
		&teacher.ID,
		&teacher.SchoolID,
		&teacher.Name,
		&teacher.Email,
		&teacher.Phone,
		&teacher.Subject,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	)
	return teacher, err
}

func scanStudent(row rowScanner) (model.Student, error) {
	var student model.Student
	err := row.Scan(
		&student.ID,
		&student.SchoolID,
		&student.Name,
		&student.Email,
		&student.Phone,
		&student.Class,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	return student, err
}

// clauseSet accumulates SET fragments and their positional args. updated_at
// is always touched so an empty update is still a valid statement.
type clauseSet struct {
	parts []string
	args  []any
}

func setClauses() *clauseSet {
	return &clauseSet{parts: []string{"updated_at = now()"}}
}

func (c *clauseSet) add(column string, value any) {
	switch v := value.(type) {
	case *string:
		if v == nil {
			return
		}
		c.args = append(c.args, *v)
	case *bool:
		if v == nil {
			return
		}
		c.args = append(c.args, *v)
	default:
		return
	}
	c.parts = append(c.parts, fmt.Sprintf("%s = $%d", column, len(c.args)))
}

func (c *clauseSet) sql() string {
	return strings.Join(c.parts, ", ")
}

// next is the positional index for the argument appended after args.
func (c *clauseSet) next() int {
	return len(c.args) + 1
}

func wrapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
