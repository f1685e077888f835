// fake_service.go - In-process conversion service for tests
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

// DocxMIME is the content type the real service sends with documents.
const DocxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// FakeDocument is a byte sequence that is deliberately not valid UTF-8 so
// tests notice if a client treats the payload as text.
var FakeDocument = []byte{'P', 'K', 0x03, 0x04, 0x00, 0xff, 0xfe, 0x80, 0x00, 'd', 'o', 'c'}

// Upload records one POST /api/convert.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
	Template    string
	HasTemplate bool
	RequestID   string
}

// FakeService mimics the conversion service's three endpoints. Zero status
// fields mean 200. Setting RawHealth or RawTemplates sends that body verbatim.
type FakeService struct {
	mu sync.Mutex

	PandocAvailable bool
	HealthStatus    int
	RawHealth       string
	Templates       []string
	TemplatesStatus int
	RawTemplates    string

	ConvertStatus      int
	ConvertBody        []byte
	ConvertContentType string
	Disposition        string
	// Hold, when set, blocks conversions until it is closed or receives.
	Hold chan struct{}

	uploads []Upload
	server  *httptest.Server
}

// NewFakeService starts a fake service that is shut down with the test.
func NewFakeService(t testing.TB) *FakeService {
	t.Helper()
	f := &FakeService{
		PandocAvailable: true,
		ConvertBody:     FakeDocument,
		Disposition:     `attachment; filename=document.docx`,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/api/health", f.handleHealth)
	e.GET("/api/templates", f.handleTemplates)
	e.POST("/api/convert", f.handleConvert)

	f.server = httptest.NewServer(e)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the fake.
func (f *FakeService) URL() string {
	return f.server.URL
}

// Configure runs fn with the fake locked, for changing behaviour mid-test.
func (f *FakeService) Configure(fn func(*FakeService)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// Uploads returns the conversions received so far.
func (f *FakeService) Uploads() []Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Upload, len(f.uploads))
	copy(out, f.uploads)
	return out
}

func status(code int) int {
	if code == 0 {
		return http.StatusOK
	}
	return code
}

func (f *FakeService) handleHealth(c echo.Context) error {
	f.mu.Lock()
	code, raw, available := status(f.HealthStatus), f.RawHealth, f.PandocAvailable
	f.mu.Unlock()

	if raw != "" {
		return c.String(code, raw)
	}
	return c.JSON(code, map[string]interface{}{
		"status":           "ok",
		"pandoc_available": available,
	})
}

func (f *FakeService) handleTemplates(c echo.Context) error {
	f.mu.Lock()
	code, raw := status(f.TemplatesStatus), f.RawTemplates
	list := make([]map[string]string, 0, len(f.Templates))
	for _, name := range f.Templates {
		list = append(list, map[string]string{"name": name, "path": "/srv/templates/" + name})
	}
	f.mu.Unlock()

	if raw != "" {
		return c.String(code, raw)
	}
	return c.JSON(code, list)
}

func (f *FakeService) handleConvert(c echo.Context) error {
	up := Upload{RequestID: c.Request().Header.Get("X-Request-ID")}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file part in request"})
	}
	up.Filename = fh.Filename
	up.ContentType = fh.Header.Get("Content-Type")
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Error reading uploaded file"})
	}
	up.Content, err = io.ReadAll(src)
	src.Close()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Error reading uploaded file"})
	}
	if form, err := c.MultipartForm(); err == nil {
		if values, ok := form.Value["template"]; ok && len(values) > 0 {
			up.HasTemplate = true
			up.Template = values[0]
		}
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, up)
	hold := f.Hold
	code := status(f.ConvertStatus)
	body := f.ConvertBody
	contentType := f.ConvertContentType
	disposition := f.Disposition
	f.mu.Unlock()

	if hold != nil {
		<-hold
	}

	if code >= 200 && code <= 299 {
		if disposition != "" {
			c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
		}
		if contentType == "" {
			contentType = DocxMIME
		}
	} else if contentType == "" {
		contentType = echo.MIMETextPlainCharsetUTF8
	}
	return c.Blob(code, contentType, body)
}
