package service

import (
	"context" // Request scoped context
	"errors"  // Sentinel comparison
	"fmt"     // Error wrapping
	"io"      // Upload readers
	"net/url" // Cache key escaping
	"path"    // Image extensions
	"regexp"  // Image name cleaning
	"strings" // Input trimming
	"time"    // Cache TTL and clock

	"employee_system/internal/domain"     // Domain models and errors
	"employee_system/internal/repository" // Sort directions
	"employee_system/internal/storage"    // Image storage
	"employee_system/internal/utils"      // Search cache

	"github.com/sirupsen/logrus" // Logging library
)

const (
	employeesNamespace = "employees"      // Cache namespace for search results
	searchCacheTTL     = 60 * time.Second // Search results cache TTL
	defaultSortField   = "name"
)

// allowedImageExts is the upload allow-list, compared lower-cased
var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// unsafeNameChars matches characters not kept in stored image names
var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// EmployeeStore persists employees
type EmployeeStore interface {
	Search(ctx context.Context, query, sortField string, dir repository.SortDirection) ([]domain.Employee, error)
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Insert(ctx context.Context, e *domain.Employee) error
	ReplaceByID(ctx context.Context, e *domain.Employee) error
	DeleteByID(ctx context.Context, id string) (*domain.Employee, error)
}

// CreateEmployeeInput holds the fields of a new employee
type CreateEmployeeInput struct {
	Name        string
	Email       string
	Mobile      string
	Designation string // Defaults to HR
	Gender      string
	Course      []string
}

// UpdateEmployeeInput replaces an employee. Name, Email, Mobile and Gender must
// always be sent; Designation and Course are replaced only when non-nil.
type UpdateEmployeeInput struct {
	Name        string
	Email       string
	Mobile      string
	Gender      string
	Designation *string
	Course      *[]string
}

// ImageUpload is an uploaded file as received from the client
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// SearchParams are the raw list query parameters
type SearchParams struct {
	Query     string
	SortBy    string
	SortOrder string
}

// EmployeeService validates and orchestrates employee changes
type EmployeeService struct {
	employees EmployeeStore
	images    storage.ImageStore
	cache     *utils.Cache // Optional search cache
	now       func() time.Time
}

// NewEmployeeService creates an employee service; cache may be nil
func NewEmployeeService(employees EmployeeStore, images storage.ImageStore, cache *utils.Cache) *EmployeeService {
	return &EmployeeService{employees: employees, images: images, cache: cache, now: time.Now}
}

// Search lists employees matching params, served from the cache when possible
func (s *EmployeeService) Search(ctx context.Context, params SearchParams) ([]domain.Employee, error) {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = defaultSortField
	}
	dir := repository.ParseSortDirection(params.SortOrder) // Anything but asc sorts descending

	var cacheKey string
	if s.cache.Enabled() {
		version, err := s.cache.Version(ctx, employeesNamespace)
		if err != nil {
			logrus.WithError(err).Warn("employee cache version lookup failed")
		} else {
			order := "desc"
			if dir == repository.SortAsc {
				order = "asc"
			}
			cacheKey = utils.VersionedKey(employeesNamespace, version, "search",
				url.QueryEscape(params.Query), url.QueryEscape(sortBy), order)
			var cached []domain.Employee
			if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
				return cached, nil // Cache hit
			} else if err != nil {
				logrus.WithError(err).Warn("employee cache read failed")
			}
		}
	}

	employees, err := s.employees.Search(ctx, params.Query, sortBy, dir)
	if err != nil {
		return nil, err
	}
	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, employees, searchCacheTTL); err != nil {
			logrus.WithError(err).Warn("employee cache write failed")
		}
	}
	return employees, nil
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	return s.employees.FindByID(ctx, id)
}

// Create validates in, stores the optional image and inserts the employee
func (s *EmployeeService) Create(ctx context.Context, in CreateEmployeeInput, image *ImageUpload) (*domain.Employee, error) {
	e := &domain.Employee{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Mobile:      strings.TrimSpace(in.Mobile),
		Designation: strings.TrimSpace(in.Designation),
		Gender:      strings.TrimSpace(in.Gender),
	}
	if err := requireFields(e.Name, e.Email, e.Mobile, e.Gender); err != nil {
		return nil, err
	}
	if e.Designation == "" {
		e.Designation = domain.DesignationHR // Default designation
	}
	if !domain.ValidDesignation(e.Designation) {
		return nil, domain.BadRequest("Invalid designation: " + e.Designation)
	}
	if !domain.ValidGender(e.Gender, false) {
		return nil, domain.BadRequest("Invalid gender: " + e.Gender)
	}
	course, err := normalizeCourses(in.Course)
	if err != nil {
		return nil, err
	}
	e.Course = course
	if err := checkImage(image); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, e.Email, ""); err != nil {
		return nil, err
	}

	if image != nil {
		name, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		e.Image = name
	}
	if err := s.employees.Insert(ctx, e); err != nil {
		s.discardImage(ctx, e.Image) // Orphaned upload
		return nil, err
	}
	s.invalidate(ctx)
	logrus.WithFields(logrus.Fields{"employee_id": e.ID, "email": e.Email}).Info("employee created")
	return e, nil
}

// Update replaces the employee with id. A supplied image replaces the stored
// one, which is then removed; otherwise the existing image is kept.
func (s *EmployeeService) Update(ctx context.Context, id string, in UpdateEmployeeInput, image *ImageUpload) (*domain.Employee, error) {
	existing, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *existing // Copy, existing keeps the old image name
	next.Name = strings.TrimSpace(in.Name)
	next.Email = strings.TrimSpace(in.Email)
	next.Mobile = strings.TrimSpace(in.Mobile)
	next.Gender = strings.TrimSpace(in.Gender)
	if err := requireFields(next.Name, next.Email, next.Mobile, next.Gender); err != nil {
		return nil, err
	}
	if !domain.ValidGender(next.Gender, true) {
		return nil, domain.BadRequest("Invalid gender: " + next.Gender)
	}
	if in.Designation != nil {
		next.Designation = strings.TrimSpace(*in.Designation)
		if !domain.ValidDesignation(next.Designation) {
			return nil, domain.BadRequest("Invalid designation: " + next.Designation)
		}
	}
	if in.Course != nil {
		course, err := normalizeCourses(*in.Course)
		if err != nil {
			return nil, err
		}
		next.Course = course
	}
	if err := checkImage(image); err != nil {
		return nil, err
	}
	if next.Email != existing.Email {
		if err := s.ensureEmailFree(ctx, next.Email, id); err != nil {
			return nil, err
		}
	}

	if image != nil {
		name, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		next.Image = name
	}
	if err := s.employees.ReplaceByID(ctx, &next); err != nil {
		if next.Image != existing.Image {
			s.discardImage(ctx, next.Image)
		}
		return nil, err
	}
	if next.Image != existing.Image {
		s.discardImage(ctx, existing.Image) // Replaced
	}
	s.invalidate(ctx)

	updated, err := s.employees.FindByID(ctx, id) // Reload stored timestamps
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"employee_id": id}).Info("employee updated")
	return updated, nil
}

// Delete removes the employee with id and its stored image
func (s *EmployeeService) Delete(ctx context.Context, id string) (*domain.Employee, error) {
	deleted, err := s.employees.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.discardImage(ctx, deleted.Image)
	s.invalidate(ctx)
	logrus.WithFields(logrus.Fields{"employee_id": id}).Info("employee deleted")
	return deleted, nil
}

func requireFields(name, email, mobile, gender string) error {
	var missing []string
	for _, f := range []struct{ key, value string }{
		{"name", name}, {"email", email}, {"mobile", mobile}, {"gender", gender},
	} {
		if f.value == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return domain.BadRequest("Missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// normalizeCourses validates and de-duplicates courses, keeping order
func normalizeCourses(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if !domain.ValidCourse(c) {
			return nil, domain.BadRequest("Invalid course: " + c)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

func checkImage(image *ImageUpload) error {
	if image == nil {
		return nil
	}
	if !allowedImageExts[strings.ToLower(path.Ext(baseName(image.Filename)))] {
		return domain.ErrImagesOnly
	}
	return nil
}

// baseName strips any client supplied directory, whichever separator it uses
func baseName(filename string) string {
	return path.Base(strings.ReplaceAll(filename, `\`, "/"))
}

// StoredImageName builds the collision-resistant name an upload is stored under
func StoredImageName(now time.Time, filename string) string {
	clean := strings.Trim(unsafeNameChars.ReplaceAllString(baseName(filename), "_"), "._")
	if clean == "" {
		clean = "image"
	}
	return fmt.Sprintf("%d_%s", now.UnixNano(), clean)
}

func (s *EmployeeService) ensureEmailFree(ctx context.Context, email, excludeID string) error {
	taken, err := s.employees.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrEmailTaken
	}
	return nil
}

func (s *EmployeeService) storeImage(ctx context.Context, image *ImageUpload) (string, error) {
	name := StoredImageName(s.now(), image.Filename)
	if err := s.images.Save(ctx, name, image.Reader); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return name, nil
}

// discardImage removes a stored image, logging instead of failing
func (s *EmployeeService) discardImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.images.Delete(ctx, name); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logrus.WithError(err).WithField("image", name).Warn("failed to remove image")
	}
}

// invalidate drops every cached search result
func (s *EmployeeService) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx, employeesNamespace); err != nil {
		logrus.WithError(err).Warn("employee cache invalidation failed")
	}
}
