package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bob   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

type fakeAuth struct{}

func (fakeAuth) SignUp(_ context.Context, email, password string) (string, error) {
	switch {
	case email == "taken@example.com":
		return "", domain.ErrAlreadyExists
	case len(password) < 6:
		return "", &model.ValidationError{Problems: []string{"password: must be at least 6 characters"}}
	}
	return "alice-token", nil
}

func (fakeAuth) SignIn(_ context.Context, email, password string) (string, error) {
	if email == "alice@example.com" && password == "secret1" {
		return "alice-token", nil
	}
	return "", domain.ErrInvalidCredentials
}

func (fakeAuth) ParseToken(token string) (uuid.UUID, error) {
	switch token {
	case "alice-token":
		return alice, nil
	case "bob-token":
		return bob, nil
	}
	return uuid.Nil, domain.ErrUnauthorized
}

type fakeResumes struct {
	byID map[uuid.UUID]domain.Resume
}

func (f *fakeResumes) List(_ context.Context, owner uuid.UUID) ([]domain.Resume, error) {
	out := []domain.Resume{}
	for _, r := range f.byID {
		if r.UserID == owner {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResumes) Get(_ context.Context, id, owner uuid.UUID) (*domain.Resume, error) {
	r, ok := f.byID[id]
	if !ok || r.UserID != owner {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (f *fakeResumes) Create(_ context.Context, owner uuid.UUID, data model.Resume) (*domain.Resume, error) {
	if err := model.Validate(data); err != nil {
		return nil, err
	}
	r := domain.Resume{ID: uuid.New(), UserID: owner, Data: data}
	f.byID[r.ID] = r
	return &r, nil
}

func (f *fakeResumes) Update(ctx context.Context, id, owner uuid.UUID, data model.Resume) (*domain.Resume, error) {
	r, err := f.Get(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	r.Data = data
	f.byID[id] = *r
	return r, nil
}

func (f *fakeResumes) Delete(ctx context.Context, id, owner uuid.UUID) error {
	if _, err := f.Get(ctx, id, owner); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

type fakeExporter struct {
	resumes *fakeResumes
	pdf     []byte
	err     error
}

func (f *fakeExporter) ExportPDF(ctx context.Context, id, owner uuid.UUID) (*usecase.Export, error) {
	if _, err := f.resumes.Get(ctx, id, owner); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.Export{Filename: "resume-" + id.String() + ".pdf", ContentType: usecase.ContentTypePDF, Data: f.pdf}, nil
}

func (f *fakeExporter) ExportHTML(ctx context.Context, id, owner uuid.UUID) (*usecase.Export, error) {
	r, err := f.resumes.Get(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	return &usecase.Export{ContentType: usecase.ContentTypeHTML, Data: []byte("<h1>" + r.Data.Profile.FirstName + "</h1>")}, nil
}

type testEnv struct {
	app      *fiber.App
	resumes  *fakeResumes
	exporter *fakeExporter
	stored   domain.Resume
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	resumes := &fakeResumes{byID: map[uuid.UUID]domain.Resume{}}
	stored := domain.Resume{
		ID:     uuid.New(),
		UserID: alice,
		Data:   model.Resume{Profile: model.Profile{FirstName: "Alice", LastName: "Doe", JobTitle: "Engineer"}},
	}
	resumes.byID[stored.ID] = stored

	exporter := &fakeExporter{resumes: resumes, pdf: []byte("%PDF-1.4\nfake pdf body\n%%EOF")}
	h := NewHandler(fakeAuth{}, resumes, exporter, ai.NewImprover(nil, fixedRand(0)))
	return &testEnv{app: NewApp(h, 1<<20), resumes: resumes, exporter: exporter, stored: stored}
}

type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, int((10 * time.Second).Milliseconds()))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestExportPDF(t *testing.T) {
	env := newTestEnv(t)

	for _, method := range []string{http.MethodPost, http.MethodGet} {
		resp := env.do(t, method, "/resumes/"+env.stored.ID.String()+"/export/pdf", "alice-token", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, env.exporter.pdf, body)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="resume-`+env.stored.ID.String()+`.pdf"`, resp.Header.Get("Content-Disposition"))
		assert.Equal(t, strconv.Itoa(len(env.exporter.pdf)), resp.Header.Get("Content-Length"))
	}
}

func TestExportPDF_NotFoundIsIndistinguishable(t *testing.T) {
	env := newTestEnv(t)

	foreign := env.do(t, http.MethodPost, "/resumes/"+env.stored.ID.String()+"/export/pdf", "bob-token", nil)
	missing := env.do(t, http.MethodPost, "/resumes/"+uuid.NewString()+"/export/pdf", "alice-token", nil)
	malformed := env.do(t, http.MethodPost, "/resumes/not-a-uuid/export/pdf", "alice-token", nil)

	var bodies []string
	for _, resp := range []*http.Response{foreign, missing, malformed} {
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		bodies = append(bodies, string(b))
	}
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
}

func TestExportPDF_RenderFailureIsGeneric500(t *testing.T) {
	env := newTestEnv(t)
	env.exporter.err = &domain.RenderError{Stage: "launch", Err: errors.New("chrome missing at /opt/Alice")}

	resp := env.do(t, http.MethodPost, "/resumes/"+env.stored.ID.String()+"/export/pdf", "alice-token", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(b), "Alice")
	assert.NotContains(t, string(b), "chrome")
}

func TestExportHTML(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/resumes/"+env.stored.ID.String()+"/export/html", "alice-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Empty(t, resp.Header.Get("Content-Disposition"))
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, token := range []string{"", "forged"} {
		resp := env.do(t, http.MethodGet, "/resumes", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp := env.do(t, http.MethodPost, "/ai/improve-bullet", "", map[string]string{"text": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/auth/signup", "", credentialsReq{Email: "alice@example.com", Password: "secret1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tok tokenResp
	decode(t, resp, &tok)
	assert.Equal(t, "alice-token", tok.AccessToken)

	resp = env.do(t, http.MethodPost, "/auth/signup", "", credentialsReq{Email: "taken@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/auth/signup", "", credentialsReq{Email: "x@example.com", Password: "abc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/auth/login", "", credentialsReq{Email: "alice@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/auth/login", "", credentialsReq{Email: "alice@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestResumeCRUD(t *testing.T) {
	env := newTestEnv(t)
	doc := model.Resume{Profile: model.Profile{FirstName: "Jane", LastName: "Doe", JobTitle: "Engineer"}}

	resp := env.do(t, http.MethodPost, "/resumes", "alice-token", resumeReq{Data: &doc})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created domain.Resume
	decode(t, resp, &created)
	assert.Equal(t, alice, created.UserID)

	resp = env.do(t, http.MethodGet, "/resumes", "alice-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []domain.Resume
	decode(t, resp, &list)
	assert.Len(t, list, 2)

	doc.Profile.JobTitle = "Staff Engineer"
	resp = env.do(t, http.MethodPut, "/resumes/"+created.ID.String(), "alice-token", resumeReq{Data: &doc})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/resumes/"+created.ID.String(), "bob-token", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/resumes/"+created.ID.String(), "alice-token", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateResume_ValidationDetails(t *testing.T) {
	env := newTestEnv(t)
	doc := model.Resume{Profile: model.Profile{FirstName: "", LastName: "Doe", JobTitle: "Engineer"}}

	resp := env.do(t, http.MethodPost, "/resumes", "alice-token", resumeReq{Data: &doc})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "validation failed", body.Error)
	assert.NotEmpty(t, body.Details)

	resp = env.do(t, http.MethodPost, "/resumes", "alice-token", map[string]string{"nope": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImproveBullet(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/ai/improve-bullet", "alice-token", improveReq{Text: "built the billing service"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		ImprovedText string `json:"improvedText"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "Built the billing service, resulting in measurable improvements", out.ImprovedText)

	resp = env.do(t, http.MethodPost, "/ai/improve-bullet", "alice-token", improveReq{Text: " "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody map[string]string
	decode(t, resp, &errBody)
	assert.Equal(t, "bullet point text is required", errBody["error"])
}

func TestHealthAndRequestID(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = env.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
