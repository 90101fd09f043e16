package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx answer from the server
type APIError struct {
	Status  int    // HTTP status code
	Message string // Server message or status text
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// StatusOf returns the HTTP status of an *APIError, or 0 for transport errors
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// User is the identity returned by /api/auth/user
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Employee is an employee as rendered by the API
type Employee struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Designation string    `json:"designation"`
	Gender      string    `json:"gender"`
	Course      []string  `json:"course"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EmployeeForm is the payload for create and update. An empty Designation
// is not sent; ImagePath names a local file to upload.
type EmployeeForm struct {
	Name        string
	Email       string
	Mobile      string
	Designation string
	Gender      string
	Course      []string
	ImagePath   string
}

// SearchParams are the list query parameters
type SearchParams struct {
	Search    string
	SortBy    string
	SortOrder string
}

// Client talks to the employee API over HTTP
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for baseURL. A nil httpClient gets a 10s timeout client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetToken sets the bearer token sent on protected routes
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a token. The token is not stored on the client.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", credentials(username, password), &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register", credentials(username, password), nil)
}

// CurrentUser resolves the identity behind the token
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout revokes the token server side
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// ListEmployees searches and sorts employees
func (c *Client) ListEmployees(ctx context.Context, p SearchParams) ([]Employee, error) {
	q := url.Values{}
	q.Set("search", p.Search) // Always sent, empty matches all
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	var list []Employee
	if err := c.doJSON(ctx, http.MethodGet, "/api/employees/fetchEmployees?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetEmployee fetches one employee
func (c *Client) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	if err := c.doJSON(ctx, http.MethodGet, "/api/employees/"+url.PathEscape(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEmployee submits a new employee
func (c *Client) CreateEmployee(ctx context.Context, f EmployeeForm) (*Employee, error) {
	return c.sendForm(ctx, http.MethodPost, "/api/employees/createEmployee", f)
}

// UpdateEmployee replaces an employee. Courses are always sent so an empty
// list clears them.
func (c *Client) UpdateEmployee(ctx context.Context, id string, f EmployeeForm) (*Employee, error) {
	return c.sendForm(ctx, http.MethodPut, "/api/employees/updateEmployee/"+url.PathEscape(id), f)
}

// DeleteEmployee removes an employee and returns the deleted record
func (c *Client) DeleteEmployee(ctx context.Context, id string) (*Employee, error) {
	var resp struct {
		Employee Employee `json:"employee"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/api/employees/deleteEmployee/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Employee, nil
}

func credentials(username, password string) map[string]string {
	return map[string]string{"username": username, "password": password}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	contentType := ""
	if payload != nil {
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) sendForm(ctx context.Context, method, path string, f EmployeeForm) (*Employee, error) {
	body, contentType, err := encodeForm(f)
	if err != nil {
		return nil, err
	}
	var e Employee
	if err := c.do(ctx, method, path, body, contentType, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func encodeForm(f EmployeeForm) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", f.Name},
		{"email", f.Email},
		{"mobile", f.Mobile},
		{"gender", f.Gender},
		{"course", strings.Join(f.Course, ",")}, // Empty clears the list
	}
	if f.Designation != "" {
		fields = append(fields, [2]string{"designation", f.Designation}) // Omitted keeps the server default
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	if f.ImagePath != "" {
		file, err := os.Open(f.ImagePath)
		if err != nil {
			return nil, "", fmt.Errorf("open image: %w", err)
		}
		defer file.Close()
		part, err := mw.CreateFormFile("image", filepath.Base(f.ImagePath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, "", fmt.Errorf("read image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" { // Protected routes only
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Close the body

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(status int, data []byte) *APIError {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return &APIError{Status: status, Message: body.Message}
	}
	return &APIError{Status: status, Message: http.StatusText(status)} // Non-JSON body
}
