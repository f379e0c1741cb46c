// Package lmssvc talks to the Canvas REST API.
package lmssvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/lms"
)

const (
	apiPrefix      = "/api/v1"
	maxPages       = 50
	errBodyLimit   = 1024
	defaultPerPage = 100
)

type (
	canvasConnector struct {
		httpClient *http.Client
		perPage    int
	}

	canvasClient struct {
		baseURL    string
		apiKey     string
		httpClient *http.Client
		perPage    int
	}

	// StatusError is a Canvas reply other than 2xx, 401 or 404.
	StatusError struct {
		Status int
		Body   string
	}
)

var (
	_ lms.Connector = (*canvasConnector)(nil)
	_ lms.Client    = (*canvasClient)(nil)
)

func (err StatusError) Error() string {
	msg := fmt.Sprintf("canvas: %d %s", err.Status, http.StatusText(err.Status))
	if err.Body != "" {
		msg += ": " + err.Body
	}
	return msg
}

// NewConnector returns a Connector for Canvas instances, using conf for request timeouts and page size.
func NewConnector(conf core.CanvasConfig) lms.Connector {
	perPage := conf.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &canvasConnector{
		httpClient: &http.Client{Timeout: conf.Timeout},
		perPage:    perPage,
	}
}

func (c *canvasConnector) Connect(baseURL, apiKey string) lms.Client {
	return &canvasClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     apiKey,
		httpClient: c.httpClient,
		perPage:    c.perPage,
	}
}

// wire formats

type (
	canvasUser struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Email        string `json:"email"`
		PrimaryEmail string `json:"primary_email"`
		AvatarURL    string `json:"avatar_url"`
	}

	canvasCourse struct {
		ID         int64  `json:"id"`
		Name       string `json:"name"`
		CourseCode string `json:"course_code"`
		Term       *struct {
			Name string `json:"name"`
		} `json:"term"`
	}

	canvasEnrollment struct {
		Type string `json:"type"`
		Role string `json:"role"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
		Grades *struct {
			CurrentScore *float64 `json:"current_score"`
		} `json:"grades"`
	}

	canvasAssignment struct {
		ID              int64    `json:"id"`
		CourseID        int64    `json:"course_id"`
		Name            string   `json:"name"`
		Description     *string  `json:"description"`
		DueAt           *string  `json:"due_at"`
		PointsPossible  *float64 `json:"points_possible"`
		SubmissionTypes []string `json:"submission_types"`
	}

	canvasSubmission struct {
		SubmittedAt *time.Time `json:"submitted_at"`
		Grade       *string    `json:"grade"`
	}
)

func (c *canvasClient) CurrentUser(ctx context.Context) (lms.User, error) {
	var u canvasUser
	if err := c.get(ctx, c.endpoint("/users/self", nil), &u); err != nil {
		return lms.User{}, err
	}
	usr := lms.User{ID: u.ID, Name: u.Name, Email: u.Email, AvatarURL: u.AvatarURL}
	if usr.Email == "" {
		usr.Email = u.PrimaryEmail
	}
	return usr, nil
}

func (c *canvasClient) ActiveCourses(ctx context.Context) ([]lms.Course, error) {
	q := url.Values{"enrollment_state": {"active"}, "include[]": {"term"}}
	var items []canvasCourse
	if err := c.list(ctx, c.endpoint("/users/self/courses", q), &items); err != nil {
		return nil, err
	}
	courses := make([]lms.Course, 0, len(items))
	for _, it := range items {
		crs := lms.Course{ID: it.ID, Name: it.Name, CourseCode: it.CourseCode}
		if it.Term != nil {
			crs.TermName = it.Term.Name
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

func (c *canvasClient) CourseEnrollments(ctx context.Context, courseID int64) ([]lms.Enrollment, error) {
	var items []canvasEnrollment
	path := fmt.Sprintf("/courses/%d/enrollments", courseID)
	if err := c.list(ctx, c.endpoint(path, nil), &items); err != nil {
		return nil, err
	}
	enrollments := make([]lms.Enrollment, 0, len(items))
	for _, it := range items {
		e := lms.Enrollment{Type: enrollmentType(it.Type), UserName: it.User.Name}
		if it.Grades != nil {
			e.CurrentScore = it.Grades.CurrentScore
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, nil
}

func (c *canvasClient) CourseAssignments(ctx context.Context, courseID int64) ([]lms.Assignment, error) {
	var items []canvasAssignment
	path := fmt.Sprintf("/courses/%d/assignments", courseID)
	if err := c.list(ctx, c.endpoint(path, nil), &items); err != nil {
		return nil, err
	}
	assignments := make([]lms.Assignment, 0, len(items))
	for _, it := range items {
		a := lms.Assignment{
			ID:              it.ID,
			CourseID:        it.CourseID,
			Name:            it.Name,
			SubmissionTypes: it.SubmissionTypes,
		}
		if a.CourseID == 0 {
			a.CourseID = courseID
		}
		if it.Description != nil {
			a.Description = *it.Description
		}
		if it.DueAt != nil {
			a.DueAt = *it.DueAt
		}
		if it.PointsPossible != nil {
			a.PointsPossible = *it.PointsPossible
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func (c *canvasClient) Submission(ctx context.Context, courseID, assignmentID, userID int64) (lms.Submission, error) {
	var s canvasSubmission
	path := fmt.Sprintf("/courses/%d/assignments/%d/submissions/%d", courseID, assignmentID, userID)
	if err := c.get(ctx, c.endpoint(path, nil), &s); err != nil {
		return lms.Submission{}, err
	}
	sub := lms.Submission{SubmittedAt: s.SubmittedAt}
	if s.Grade != nil {
		sub.Grade = *s.Grade
	}
	return sub, nil
}

// enrollmentType maps "StudentEnrollment" and friends to the lms constants.
func enrollmentType(t string) string {
	t = strings.TrimSuffix(t, "Enrollment")
	return strings.ToLower(t)
}

func (c *canvasClient) endpoint(path string, q url.Values) string {
	u := c.baseURL + apiPrefix + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *canvasClient) get(ctx context.Context, endpoint string, dst interface{}) error {
	_, err := c.do(ctx, endpoint, dst)
	return err
}

// list follows the `Link: <...>; rel="next"` chain and appends every page to *dst.
func (c *canvasClient) list(ctx context.Context, endpoint string, dst interface{}) error {
	first, err := url.Parse(endpoint)
	if err != nil {
		return errors.Wrap(err, "parsing canvas url")
	}
	q := first.Query()
	q.Set("per_page", strconv.Itoa(c.perPage))
	first.RawQuery = q.Encode()

	var pages []json.RawMessage
	next := first.String()
	for i := 0; next != "" && i < maxPages; i++ {
		var page json.RawMessage
		link, err := c.do(ctx, next, &page)
		if err != nil {
			return err
		}
		pages = append(pages, page)
		next = nextLink(link)
	}
	return mergePages(pages, dst)
}

func mergePages(pages []json.RawMessage, dst interface{}) error {
	var all []json.RawMessage
	for _, p := range pages {
		var items []json.RawMessage
		if err := json.Unmarshal(p, &items); err != nil {
			return errors.Wrap(err, "decoding canvas page")
		}
		all = append(all, items...)
	}
	if all == nil {
		all = []json.RawMessage{}
	}
	data, err := json.Marshal(all)
	if err != nil {
		return err
	}
	return errors.Wrap(json.Unmarshal(data, dst), "decoding canvas list")
}

// do issues an authenticated GET and decodes the JSON body into dst. It returns the Link header.
func (c *canvasClient) do(ctx context.Context, endpoint string, dst interface{}) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errors.Wrap(err, "creating canvas request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling canvas")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", lms.ErrInvalidToken
	case resp.StatusCode == http.StatusNotFound:
		return "", lms.ErrNotFound
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return "", StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	// Canvas may prefix JSON with "while(1);" when the request looks like a browser one
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading canvas response")
	}
	body = []byte(strings.TrimPrefix(string(body), "while(1);"))
	if err = json.Unmarshal(body, dst); err != nil {
		return "", errors.Wrap(err, "decoding canvas response")
	}
	return resp.Header.Get("Link"), nil
}

// nextLink extracts the rel="next" target of a Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		segs := strings.Split(part, ";")
		if len(segs) < 2 {
			continue
		}
		target := strings.TrimSpace(segs[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range segs[1:] {
			param = strings.ReplaceAll(strings.TrimSpace(param), " ", "")
			if param == `rel="next"` || param == "rel=next" {
				return target[1 : len(target)-1]
			}
		}
	}
	return ""
}
