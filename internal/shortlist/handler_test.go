package shortlist

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-shortlister/internal/jobs"
	"resume-shortlister/internal/scoring"
	localstore "resume-shortlister/internal/shared/storage/object/local"
)

// echoGateway scores every path it is given with a fixed percentage.
type echoGateway struct {
	err error
}

func (g *echoGateway) Score(ctx context.Context, jobDescription string, filePaths []string) ([]jobs.Candidate, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := make([]jobs.Candidate, 0, len(filePaths))
	for _, p := range filePaths {
		out = append(out, jobs.Candidate{FileName: filepath.Base(p), MatchPercentage: 75})
	}
	return out, nil
}

func newShortlistRouter(t *testing.T, gateway scoring.Gateway, role string) (*gin.Engine, *jobs.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := jobs.NewMemoryRepo()
	svc := NewService(jobs.NewService(repo), gateway)
	handler := NewHandler(svc, localstore.New(t.TempDir()))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("userRole", role)
	})
	api := r.Group("/api/v1")
	RegisterRoutes(api, handler)
	return r, repo
}

func multipartBody(t *testing.T, jobDescription string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if jobDescription != "" {
		if err := writer.WriteField("jobDescription", jobDescription); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, content := range files {
		fw, err := writer.CreateFormFile("resumes", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func pdfStub() []byte {
	return []byte("%PDF-1.4 stub resume content")
}

func TestShortlistEndpointCreatesJob(t *testing.T) {
	router, repo := newShortlistRouter(t, &echoGateway{}, "hr")

	body, contentType := multipartBody(t, "backend engineer", map[string][]byte{
		"resume.pdf": pdfStub(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shortlist", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Data Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Data.JobID == "" || len(out.Data.Candidates) != 1 {
		t.Fatalf("unexpected result: %+v", out.Data)
	}
	if out.Data.Candidates[0].OriginalName != "resume.pdf" {
		t.Fatalf("expected original name mapped back, got %q", out.Data.Candidates[0].OriginalName)
	}

	stored, err := repo.GetByID(context.Background(), out.Data.JobID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.JobDescription != "backend engineer" {
		t.Fatalf("unexpected stored job: %+v", stored)
	}
}

func TestShortlistEndpointValidation(t *testing.T) {
	router, _ := newShortlistRouter(t, &echoGateway{}, "hr")

	// Missing files.
	body, contentType := multipartBody(t, "jd", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shortlist", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing files: expected 400, got %d", resp.Code)
	}

	// Missing job description.
	body, contentType = multipartBody(t, "", map[string][]byte{"resume.pdf": pdfStub()})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/shortlist", body)
	req.Header.Set("Content-Type", contentType)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing jd: expected 400, got %d", resp.Code)
	}

	// Not a PDF.
	body, contentType = multipartBody(t, "jd", map[string][]byte{"resume.txt": []byte("plain text")})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/shortlist", body)
	req.Header.Set("Content-Type", contentType)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("non-pdf: expected 400, got %d", resp.Code)
	}
}

func TestShortlistEndpointStudentQuota(t *testing.T) {
	router, _ := newShortlistRouter(t, &echoGateway{}, "student")

	body, contentType := multipartBody(t, "jd", map[string][]byte{
		"one.pdf": pdfStub(),
		"two.pdf": pdfStub(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shortlist", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestShortlistEndpointScoringFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"timeout", scoring.ErrTimeout, http.StatusGatewayTimeout},
		{"crash", &scoring.ProcessError{ExitCode: 1, Stderr: "boom"}, http.StatusBadGateway},
		{"garbage", &scoring.InvalidResponseError{Sample: "Traceback"}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, repo := newShortlistRouter(t, &echoGateway{err: tc.err}, "hr")

			body, contentType := multipartBody(t, "jd", map[string][]byte{"resume.pdf": pdfStub()})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/shortlist", body)
			req.Header.Set("Content-Type", contentType)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
			list, err := repo.List(context.Background())
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 0 {
				t.Fatalf("expected no job persisted, got %d", len(list))
			}
		})
	}
}
