package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"employee_system/internal/domain"
	"employee_system/internal/middleware"
	"employee_system/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	MaxUploadBytes  = 10 << 20 // Whole employee form including its image
	multipartMemory = 8 << 20  // Larger parts spill to temp files
)

// employeeFormKeys are the accepted employee form fields
var employeeFormKeys = map[string]bool{
	"name": true, "email": true, "mobile": true, "designation": true,
	"gender": true, "course": true, "course[]": true,
}

// EmployeeResponse is an employee as returned to clients, with an absolute image URL
type EmployeeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Designation string    `json:"designation"`
	Gender      string    `json:"gender"`
	Course      []string  `json:"course"`
	Image       *string   `json:"image"` // null when no image was uploaded
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DeleteEmployeeResponse acknowledges a delete
type DeleteEmployeeResponse struct {
	Message  string           `json:"message"`
	Employee EmployeeResponse `json:"employee"`
}

// baseURL is the scheme and host the request was addressed to
func baseURL(c *gin.Context) string {
	return middleware.Scheme(c) + "://" + c.Request.Host
}

// ImageURL renders a stored image name as an absolute URL
func ImageURL(base, image string) string {
	return base + "/uploads/" + url.PathEscape(image)
}

func toEmployeeResponse(e *domain.Employee, base string) EmployeeResponse {
	resp := EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Mobile:      e.Mobile,
		Designation: e.Designation,
		Gender:      e.Gender,
		Course:      e.Course,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if resp.Course == nil {
		resp.Course = []string{}
	}
	if e.Image != "" {
		u := ImageURL(base, e.Image)
		resp.Image = &u
	}
	return resp
}

// employeeForm is a parsed employee form submission
type employeeForm struct {
	values  url.Values
	courses []string
	image   *service.ImageUpload
	file    multipart.File
}

func (f *employeeForm) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f *employeeForm) hasCourse() bool { return f.has("course") || f.has("course[]") }

func (f *employeeForm) close() {
	if f.file != nil {
		f.file.Close()
	}
}

// parseEmployeeForm reads a multipart or urlencoded employee form. Courses may
// be sent as repeated course or course[] fields or as one comma-separated value.
func parseEmployeeForm(c *gin.Context) (*employeeForm, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)
	err := c.Request.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, domain.BadRequest("Invalid form data")
	}

	form := &employeeForm{values: c.Request.PostForm}
	var unknown []string
	for key := range form.values {
		if !employeeFormKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if mf := c.Request.MultipartForm; mf != nil {
		for key := range mf.File {
			if key != "image" {
				unknown = append(unknown, key)
			}
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, domain.BadRequest("Unknown fields: " + strings.Join(unknown, ", "))
	}

	for _, raw := range append(form.values["course"], form.values["course[]"]...) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				form.courses = append(form.courses, part)
			}
		}
	}
	if form.courses == nil {
		form.courses = []string{}
	}

	if mf := c.Request.MultipartForm; mf != nil && len(mf.File["image"]) > 0 {
		header := mf.File["image"][0]
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		form.file = file
		form.image = &service.ImageUpload{Filename: header.Filename, Reader: file}
	}
	return form, nil
}

// FetchEmployeesHandler lists employees filtered by search and ordered by sortBy/sortOrder
func FetchEmployeesHandler(employees *service.EmployeeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := employees.Search(c.Request.Context(), service.SearchParams{
			Query:     c.Query("search"),
			SortBy:    c.Query("sortBy"),
			SortOrder: c.Query("sortOrder"),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		base := baseURL(c)
		resp := make([]EmployeeResponse, 0, len(list))
		for i := range list {
			resp = append(resp, toEmployeeResponse(&list[i], base))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetEmployeeHandler returns one employee
func GetEmployeeHandler(employees *service.EmployeeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := employees.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toEmployeeResponse(e, baseURL(c)))
	}
}

// CreateEmployeeHandler creates an employee from a multipart form with an optional image
func CreateEmployeeHandler(employees *service.EmployeeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := parseEmployeeForm(c)
		if err != nil {
			respondError(c, err)
			return
		}
		defer form.close()

		e, err := employees.Create(c.Request.Context(), service.CreateEmployeeInput{
			Name:        form.values.Get("name"),
			Email:       form.values.Get("email"),
			Mobile:      form.values.Get("mobile"),
			Designation: form.values.Get("designation"),
			Gender:      form.values.Get("gender"),
			Course:      form.courses,
		}, form.image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toEmployeeResponse(e, baseURL(c)))
	}
}

// UpdateEmployeeHandler replaces an employee. Designation and course are only
// changed when sent; the image only when a new file is uploaded.
func UpdateEmployeeHandler(employees *service.EmployeeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := parseEmployeeForm(c)
		if err != nil {
			respondError(c, err)
			return
		}
		defer form.close()

		in := service.UpdateEmployeeInput{
			Name:   form.values.Get("name"),
			Email:  form.values.Get("email"),
			Mobile: form.values.Get("mobile"),
			Gender: form.values.Get("gender"),
		}
		if form.has("designation") {
			d := form.values.Get("designation")
			in.Designation = &d
		}
		if form.hasCourse() {
			in.Course = &form.courses
		}
		e, err := employees.Update(c.Request.Context(), c.Param("id"), in, form.image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toEmployeeResponse(e, baseURL(c)))
	}
}

// DeleteEmployeeHandler deletes an employee and echoes the deleted record
func DeleteEmployeeHandler(employees *service.EmployeeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := employees.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, DeleteEmployeeResponse{
			Message:  "Employee deleted successfully",
			Employee: toEmployeeResponse(e, baseURL(c)),
		})
	}
}
