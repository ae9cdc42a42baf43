package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Raheem-Baig1210/Practice-sub000/internal/auth"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/config"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/model"
	"github.com/Raheem-Baig1210/Practice-sub000/internal/service"
)

const (
	msgNoToken      = "No token provided. Please log in."
	msgInvalidToken = "Invalid or expired token. Please log in."
)

type Server struct {
	cfg config.Config
	svc *service.Service
}

func NewServer(cfg config.Config, svc *service.Service) *Server {
	return &Server{cfg: cfg, svc: svc}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/registerAdmin", s.handleRegisterAdmin)
	r.Post("/loginAdmin", s.handleLoginAdmin)
	r.Post("/loginSchool", s.handleLoginSchool)

	r.Group(func(r chi.Router) {
		r.Use(s.authGate)

		r.Get("/me", s.handleMe)
		r.Get("/getAdmins", s.handleGetAdmins)

		r.Post("/addSchool", s.handleAddSchool)
		r.Get("/getSchools", s.handleGetSchools)
		r.Get("/getSchool/{schoolId}", s.handleGetSchool)
		r.Put("/updateSchool/{schoolId}", s.handleUpdateSchool)
		r.Delete("/deleteSchool/{schoolId}", s.handleDeleteSchool)

		r.Post("/addTeacher", s.handleAddTeacher)
		r.Get("/getTeachers/{schoolId}", s.handleGetTeachers)
		r.Get("/getTeacher/{teacherId}", s.handleGetTeacher)
		r.Put("/updateTeacher/{teacherId}", s.handleUpdateTeacher)
		r.Delete("/deleteTeacher/{teacherId}", s.handleDeleteTeacher)

		r.Post("/addStudent", s.handleAddStudent)
		r.Get("/getStudents/{schoolId}", s.handleGetStudents)
		r.Get("/getStudent/{studentId}", s.handleGetStudent)
		r.Put("/updateStudent/{studentId}", s.handleUpdateStudent)
		r.Delete("/deleteStudent/{studentId}", s.handleDeleteStudent)

		r.Get("/stats/{schoolId}", s.handleSchoolStats)
	})

	return r
}

// authGate rejects the request unless a verifiable bearer token is
// present. Downstream handlers only run after a valid token.
func (s *Server) authGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeFailure(w, http.StatusUnauthorized, msgNoToken)
			return
		}

		claims, err := auth.ParseToken(s.cfg.JWTSecret, bearerToken(header))
		if err != nil {
			writeFailure(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

// bearerToken extracts the token portion of an Authorization header. A
// header that is present but malformed yields "", which then fails
// verification rather than being treated as absent.
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// mapServiceError converts service error kinds to envelope responses.
// notFoundMsg names the actor for 404s so clients see which lookup failed.
func mapServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeFailure(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeFailure(w, http.StatusUnauthorized, "Invalid credentials.")
	case errors.Is(err, service.ErrDuplicateEmail):
		writeFailure(w, http.StatusBadRequest, "Email already registered.")
	default:
		log.Printf("internal error: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

type registerAdminRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phno     json.Number `json:"phno"`
	Password string      `json:"password"`
}

func (s *Server) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	id, err := s.svc.RegisterAdmin(r.Context(), service.RegisterAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phno.String(),
		Password: req.Password,
	})
	if err != nil {
		mapServiceError(w, err, "Admin not found")
		return
	}

	writeSuccess(w, http.StatusCreated, "Admin registered", id)
}

func (s *Server) handleLoginAdmin(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := s.svc.LoginAdmin(r.Context(), creds)
	if err != nil {
		mapServiceError(w, err, "Admin not found")
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", result)
}

func (s *Server) handleLoginSchool(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := s.svc.LoginSchool(r.Context(), creds)
	if err != nil {
		mapServiceError(w, err, "School not found")
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", result)
}

// handleMe echoes back the identity embedded in the presented token so
// the dashboards can restore their session state after a reload.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeFailure(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]string{
		"id":    claims.ActorID,
		"email": claims.Email,
		"name":  claims.Name,
	})
}

type adminSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phno      string `json:"phno"`
	Active    bool   `json:"active"`
	CreatedOn int64  `json:"createdOn"`
}

func (s *Server) handleGetAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := s.svc.ListAdmins(r.Context(), queryLimit(r, 100))
	if err != nil {
		mapServiceError(w, err, "Admin not found")
		return
	}

	resp := make([]adminSummary, 0, len(admins))
	for _, admin := range admins {
		resp = append(resp, adminSummary{
			ID:        admin.ID,
			Name:      admin.Name,
			Email:     admin.Email,
			Phno:      admin.Phone,
			Active:    admin.Active,
			CreatedOn: admin.CreatedAt.Unix(),
		})
	}
	writeSuccess(w, http.StatusOK, "", resp)
}

type schoolSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phno      string `json:"phno"`
	Address   string `json:"address,omitempty"`
	Active    bool   `json:"active"`
	CreatedOn int64  `json:"createdOn"`
}

func mapSchoolSummary(school model.School) schoolSummary {
	return schoolSummary{
		ID:        school.ID,
		Name:      school.Name,
		Email:     school.Email,
		Phno:      school.Phone,
		Address:   school.Address,
		Active:    school.Active,
		CreatedOn: school.CreatedAt.Unix(),
	}
}

type addSchoolRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phno     json.Number `json:"phno"`
	Address  string      `json:"address"`
	Password string      `json:"password"`
}

func (s *Server) handleAddSchool(w http.ResponseWriter, r *http.Request) {
	var req addSchoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	school, err := s.svc.CreateSchool(r.Context(), service.CreateSchoolInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phno.String(),
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		mapServiceError(w, err, "School not found")
		return
	}

	writeSuccess(w, http.StatusCreated, "School added", mapSchoolSummary(school))
}

func (s *Server) handleGetSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := s.svc.ListSchools(r.Context(), queryLimit(r, 100))
	if err != nil {
		mapServiceError(w, err, "School not found")
		return
	}

	resp := make([]schoolSummary, 0, len(schools))
	for _, school := range schools {
		resp = append(resp, mapSchoolSummary(school))
	}
	writeSuccess(w, http.StatusOK, "", resp)
}

func (s *Server) handleGetSchool(w http.ResponseWriter, r *http.Request) {
	schoolID := chi.URLParam(r, "schoolId")
	if schoolID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing school id.")
		return
	}

	school, err := s.svc.GetSchool(r.Context(), schoolID)
	if err != nil {
		mapServiceError(w, err, "School not found")
		return
	}
	writeSuccess(w, http.StatusOK, "", mapSchoolSummary(school))
}

type updateSchoolRequest struct {
	Name     *string      `json:"name,omitempty"`
	Email    *string      `json:"email,omitempty"`
	Phno     *json.Number `json:"phno,omitempty"`
	Address  *string      `json:"address,omitempty"`
	Password *string      `json:"password,omitempty"`
	Active   *bool        `json:"active,omitempty"`
}

func (s *Server) handleUpdateSchool(w http.ResponseWriter, r *http.Request) {
	schoolID := chi.URLParam(r, "schoolId")
	if schoolID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing school id.")
		return
	}

	var req updateSchoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	input := service.UpdateSchoolInput{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		Password: req.Password,
		Active:   req.Active,
	}
	if req.Phno != nil {
		phone := req.Phno.String()
		input.Phone = &phone
	}

	school, err := s.svc.UpdateSchool(r.Context(), schoolID, input)
	if err != nil {
		mapServiceError(w, err, "School not found")
		return
	}
	writeSuccess(w, http.StatusOK, "School updated", mapSchoolSummary(school))
}

func (s *Server) handleDeleteSchool(w http.ResponseWriter, r *http.Request) {
	schoolID := chi.URLParam(r, "schoolId")
	if schoolID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing school id.")
		return
	}

	if err := s.svc.DeleteSchool(r.Context(), schoolID); err != nil {
		mapServiceError(w, err, "School not found")
		return
	}
	writeSuccess(w, http.StatusOK, "School deleted", nil)
}

type teacherSummary struct {
	ID        string `json:"id"`
	SchoolID  string `json:"school"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phno      string `json:"phno"`
	Subject   string `json:"subject,omitempty"`
	CreatedOn int64  `json:"createdOn"`
}

func mapTeacherSummary(teacher model.Teacher) teacherSummary {
	return teacherSummary{
		ID:        teacher.ID,
		SchoolID:  teacher.SchoolID,
		Name:      teacher.Name,
		Email:     teacher.Email,
		Phno:      teacher.Phone,
		Subject:   teacher.Subject,
		CreatedOn: teacher.CreatedAt.Unix(),
	}
}

type addTeacherRequest struct {
	SchoolID string      `json:"school"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phno     json.Number `json:"phno"`
	Subject  string      `json:"subject"`
}

func (s *Server) handleAddTeacher(w http.ResponseWriter, r *http.Request) {
	var req addTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	teacher, err := s.svc.CreateTeacher(r.Context(), service.CreateTeacherInput{
		SchoolID: req.SchoolID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phno.String(),
		Subject:  req.Subject,
	})
	if err != nil {
		mapServiceError(w, err, "Teacher not found")
		return
	}
	writeSuccess(w, http.StatusCreated, "Teacher added", mapTeacherSummary(teacher))
}

func (s *Server) handleGetTeachers(w http.ResponseWriter, r *http.Request) {
	schoolID := chi.URLParam(r, "schoolId")
	if schoolID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing school id.")
		return
	}

	teachers, err := s.svc.ListTeachers(r.Context(), schoolID, queryLimit(r, 200))
	if err != nil {
		mapServiceError(w, err, "Teacher not found")
		return
	}

	resp := make([]teacherSummary, 0, len(teachers))
	for _, teacher := range teachers {
		resp = append(resp, mapTeacherSummary(teacher))
	}
	writeSuccess(w, http.StatusOK, "", resp)
}

func (s *Server) handleGetTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "teacherId")
	if teacherID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing teacher id.")
		return
	}

	teacher, err := s.svc.GetTeacher(r.Context(), teacherID)
	if err != nil {
		mapServiceError(w, err, "Teacher not found")
		return
	}
	writeSuccess(w, http.StatusOK, "", mapTeacherSummary(teacher))
}

type updateTeacherRequest struct {
	Name    *string      `json:"name,omitempty"`
	Email   *string      `json:"email,omitempty"`
	Phno    *json.Number `json:"phno,omitempty"`
	Subject *string      `json:"subject,omitempty"`
}

func (s *Server) handleUpdateTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "teacherId")
	if teacherID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing teacher id.")
		return
	}

	var req updateTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	input := service.UpdateTeacherInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
	}
	if req.Phno != nil {
		phone := req.Phno.String()
		input.Phone = &phone
	}

	teacher, err := s.svc.UpdateTeacher(r.Context(), teacherID, input)
	if err != nil {
		mapServiceError(w, err, "Teacher not found")
		return
	}
	writeSuccess(w, http.StatusOK, "Teacher updated", mapTeacherSummary(teacher))
}

func (s *Server) handleDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "teacherId")
	if teacherID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing teacher id.")
		return
	}

	if err := s.svc.DeleteTeacher(r.Context(), teacherID); err != nil {
		mapServiceError(w, err, "Teacher not found")
		return
	}
	writeSuccess(w, http.StatusOK, "Teacher deleted", nil)
}

type studentSummary struct {
	ID        string `json:"id"`
	SchoolID  string `json:"school"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phno      string `json:"phno"`
	Class     string `json:"class,omitempty"`
	CreatedOn int64  `json:"createdOn"`
}

func mapStudentSummary(student model.Student) studentSummary {
	return studentSummary{
		ID:        student.ID,
		SchoolID:  student.SchoolID,
		Name:      student.Name,
		Email:     student.Email,
		Phno:      student.Phone,
		Class:     student.Class,
		CreatedOn: student.CreatedAt.Unix(),
	}
}

type addStudentRequest struct {
	SchoolID string      `json:"school"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phno     json.Number `json:"phno"`
	Class    string      `json:"class"`
}

func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var req addStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	student, err := s.svc.CreateStudent(r.Context(), service.CreateStudentInput{
		SchoolID: req.SchoolID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phno.String(),
		Class:    req.Class,
	})
	if err != nil {
		mapServiceError(w, err, "Student not found")
		return
	}
	writeSuccess(w, http.StatusCreated, "Student added", mapStudentSummary(student))
}

func (s *Server) handleGetStudents(w http.ResponseWriter, r *http.Request) {
	schoolID := chi.URLParam(r, "schoolId")
	if schoolID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing school id.")
		return
	}

	students, err := s.svc.ListStudents(r.Context(), schoolID, queryLimit(r, 200))
	if err != nil {
		mapServiceError(w, err, "Student not found")
		return
	}

	resp := make([]studentSummary, 0, len(students))
	for _, student := range students {
		resp = append(resp, mapStudentSummary(student))
	}
	writeSuccess(w, http.StatusOK, "", resp)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")
	if studentID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing student id.")
		return
	}

	student, err := s.svc.GetStudent(r.Context(), studentID)
	if err != nil {
		mapServiceError(w, err, "Student not found")
		return
	}
	writeSuccess(w, http.StatusOK, "", mapStudentSummary(student))
}

type updateStudentRequest struct {
	Name  *string      `json:"name,omitempty"`
	Email *string      `json:"email,omitempty"`
	Phno  *json.Number `json:"phno,omitempty"`
	Class *string      `json:"class,omitempty"`
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")
	if studentID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing student id.")
		return
	}

	var req updateStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	input := service.UpdateStudentInput{
		Name:  req.Name,
		Email: req.Email,
		Class: req.Class,
	}
	if req.Phno != nil {
		phone := req.Phno.String()
		input.Phone = &phone
	}

	student, err := s.svc.UpdateStudent(r.Context(), studentID, input)
	if err != nil {
		mapServiceError(w, err, "Student not found")
		return
	}
	writeSuccess(w, http.StatusOK, "Student updated", mapStudentSummary(student))
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")
	if studentID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing student id.")
		return
	}

	if err := s.svc.DeleteStudent(r.Context(), studentID); err != nil {
		mapServiceError(w, err, "Student not found")
		return
	}
	writeSuccess(w, http.StatusOK, "Student deleted", nil)
}

func (s *Server) handleSchoolStats(w http.ResponseWriter, r *http.Request) {
	schoolID := chi.URLParam(r, "schoolId")
	if schoolID == "" {
		writeFailure(w, http.StatusBadRequest, "Missing school id.")
		return
	}

	stats, err := s.svc.SchoolStats(r.Context(), schoolID)
	if err != nil {
		mapServiceError(w, err, "School not found")
		return
	}
	writeSuccess(w, http.StatusOK, "", stats)
}

func queryLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
