package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/studyplanner/apps/api/echo"
	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/coursework"
	"github.com/trezcool/studyplanner/core/lms"
	"github.com/trezcool/studyplanner/core/session"
	"github.com/trezcool/studyplanner/core/studyplan"
	"github.com/trezcool/studyplanner/storage/database/inmem"
	"github.com/trezcool/studyplanner/tests"
)

const (
	goodKey   = "good-key"
	canvasURL = "https://school.instructure.com"
)

var (
	now       = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	submitted = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	score     = 91.5
	ada       = lms.User{ID: 99, Name: "Ada Lovelace", Email: "ada@example.com", AvatarURL: "https://school.instructure.com/ada.png"}
	biology   = lms.Course{ID: 1, Name: "Biology 101", CourseCode: "BIO101", TermName: "Spring 2024"}
	calculus  = lms.Course{ID: 2, Name: "Calculus II", CourseCode: "MATH202"}

	errUnauthorized = httpErr{Error: "Unauthorized"}
)

type fixture struct {
	app      *Server
	sessions *session.Service
	canvas   *testutil.CanvasMock
	gen      *testutil.GeneratorMock
}

func setup(t *testing.T) *fixture {
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = time.Now })

	conf := &core.Config{
		AppName:  "Study Planner",
		Env:      "TEST",
		TestMode: true,
		Server: core.ServerConfig{
			AllowOrigins:   []string{"*"},
			DisableReqLogs: true,
		},
	}
	logger := testutil.NewLogger(t)

	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)

	f := &fixture{
		sessions: session.NewService(inmemdb.NewSessionRepository(inmemdb.Open()), 0),
		canvas:   newCanvas(),
		gen:      &testutil.GeneratorMock{},
	}
	cw := coursework.NewService(logger)
	f.app = NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Sessions:   f.sessions,
		Connector:  &testutil.CanvasConnectorMock{Clients: map[string]*testutil.CanvasMock{goodKey: f.canvas}},
		Coursework: cw,
		Plans:      studyplan.NewService(cw, f.gen, logger, time.Minute),
		Chat:       f.gen,
		Validate:   validate,
		Translator: translator,
	})
	return f
}

func newCanvas() *testutil.CanvasMock {
	return &testutil.CanvasMock{
		User:    ada,
		Courses: []lms.Course{biology, calculus},
		Enrollments: map[int64][]lms.Enrollment{
			1: {
				{Type: lms.EnrollmentTeacher, UserName: "Dr. Darwin"},
				{Type: lms.EnrollmentStudent, UserName: "Ada Lovelace", CurrentScore: &score},
			},
		},
		Assignments: map[int64][]lms.Assignment{
			1: {
				{ID: 11, Name: "Lab report", Description: "<p>Draft the <b>intro</b></p>", DueAt: "2024-03-05T10:00:00Z", PointsPossible: 20, SubmissionTypes: []string{"online_upload"}},
				{ID: 12, Name: "Reading guide", DueAt: "2024-03-12T10:00:00Z", PointsPossible: 10},
				{ID: 13, Name: "Participation"},
			},
			2: {
				{ID: 21, Name: "WebAssign 6.3", DueAt: "2024-03-08T23:59:00Z", PointsPossible: 15, SubmissionTypes: []string{"external_tool"}},
			},
		},
		Submissions: map[int64]lms.Submission{
			11: {SubmittedAt: testutil.TimePtr(submitted), Grade: "18"},
			21: {SubmittedAt: testutil.TimePtr(submitted)},
		},
	}
}

// login opens a session for the fixture's Canvas account.
func (f *fixture) login(t *testing.T) string {
	sess, err := f.sessions.Create(f.canvas, ada, canvasURL)
	if err != nil {
		t.Fatalf("login() failed: %v", err)
	}
	return sess.ID
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	session  string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, sessionID string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func runHTTPTests(t *testing.T, app http.Handler, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.session, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
