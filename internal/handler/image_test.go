package handler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pokelogger/pokelogger/internal/ai"
	"github.com/pokelogger/pokelogger/internal/auth"
	"github.com/pokelogger/pokelogger/internal/model"
	"github.com/pokelogger/pokelogger/internal/pokeapi"
	"github.com/pokelogger/pokelogger/internal/service"
)

// fakeImageStore records uploads and presigns deterministic URLs.
type fakeImageStore struct {
	uploads map[string][]byte
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{uploads: make(map[string][]byte)}
}

func (s *fakeImageStore) Upload(_ context.Context, key string, body []byte, _ string) error {
	s.uploads[key] = body
	return nil
}

func (s *fakeImageStore) SignedURL(_ context.Context, key string) (string, error) {
	return "https://signed.example.com/" + key, nil
}

// fakeAnalyzer returns canned analysis results.
type fakeAnalyzer struct {
	name     string
	analysis *ai.Analysis
	art      []byte
	err      error
	genErr   error
}

func (a *fakeAnalyzer) Identify(_ context.Context, _ []byte) (string, error) {
	return a.name, a.err
}

func (a *fakeAnalyzer) Pokemonize(_ context.Context, _ []byte) (*ai.Analysis, error) {
	return a.analysis, a.err
}

func (a *fakeAnalyzer) GenerateImage(_ context.Context, _ string) ([]byte, error) {
	return a.art, a.genErr
}

// fakeCustomSaver records AddCustom inputs.
type fakeCustomSaver struct {
	pokemon *pokeapi.Pokemon
	entry   *model.UserPokemon
	err     error
	lastAdd service.AddCustomInput
}

func (f *fakeCustomSaver) Search(_ context.Context, query string) (*pokeapi.Pokemon, error) {
	return f.pokemon, f.err
}

func (f *fakeCustomSaver) AddCustom(_ context.Context, input service.AddCustomInput) (*model.UserPokemon, error) {
	f.lastAdd = input
	return f.entry, f.err
}

func newImageTestRouter(h *ImageHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.ContextWithUser(req.Context(), testUser)))
		})
	})
	r.Post("/images/identify", h.Identify)
	r.Post("/images/pokemonize", h.Pokemonize)
	r.Post("/images/save-custom-pokemon", h.SaveCustom)
	r.Get("/images/url/*", h.SignedURL)
	return r
}

func TestImageHandler_SaveCustom(t *testing.T) {
	t.Parallel()

	saver := &fakeCustomSaver{entry: &model.UserPokemon{ID: "entry-1", Name: "Sparkfox"}}
	h := NewImageHandler(newFakeImageStore(), &fakeAnalyzer{}, saver, testLogger(), nil, 10<<20)
	router := newImageTestRouter(h)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/images/save-custom-pokemon",
		strings.NewReader(`{"pokemonId":100001,"pokemonName":"Sparkfox","pokemonImage":"https://img.example.com/s.png","pokemonTypes":["electric"],"category":"favorites","notes":"mine"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	if saver.lastAdd.OwnerID != "user-1" {
		t.Errorf("OwnerID = %s, want user-1", saver.lastAdd.OwnerID)
	}
	if saver.lastAdd.Name != "Sparkfox" {
		t.Errorf("Name = %s, want Sparkfox", saver.lastAdd.Name)
	}
	if saver.lastAdd.Category != model.CategoryFavorites {
		t.Errorf("Category = %s, want favorites", saver.lastAdd.Category)
	}
	if len(saver.lastAdd.Types) != 1 || saver.lastAdd.Types[0] != "electric" {
		t.Errorf("Types = %v, want [electric]", saver.lastAdd.Types)
	}
}

func TestImageHandler_SaveCustom_InvalidCategory(t *testing.T) {
	t.Parallel()

	saver := &fakeCustomSaver{err: service.ErrInvalidCategory}
	h := NewImageHandler(newFakeImageStore(), &fakeAnalyzer{}, saver, testLogger(), nil, 10<<20)
	router := newImageTestRouter(h)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/images/save-custom-pokemon",
		strings.NewReader(`{"pokemonId":1,"pokemonName":"x","category":"released"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Invalid category" {
		t.Errorf("error = %v, want 'Invalid category'", body["error"])
	}
}

func TestImageHandler_SignedURL_WildcardKey(t *testing.T) {
	t.Parallel()

	h := NewImageHandler(newFakeImageStore(), &fakeAnalyzer{}, &fakeCustomSaver{}, testLogger(), nil, 10<<20)
	router := newImageTestRouter(h)

	// Keys contain slashes; the wildcard route must keep them intact.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/images/url/pokemon-images/abc123.jpg", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["url"] != "https://signed.example.com/pokemon-images/abc123.jpg" {
		t.Errorf("url = %v, want full key preserved", body["url"])
	}
}

// multipartImage builds a multipart body with a small real image under
// the "image" field.
func multipartImage(t *testing.T, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 200, B: 0, A: 255})
		}
	}
	var imgBuf bytes.Buffer
	if err := png.Encode(&imgBuf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create form part: %v", err)
	}
	if _, err := part.Write(imgBuf.Bytes()); err != nil {
		t.Fatalf("failed to write form part: %v", err)
	}
	mw.Close()

	return &body, mw.FormDataContentType()
}

func TestImageHandler_Identify(t *testing.T) {
	t.Parallel()

	store := newFakeImageStore()
	analyzer := &fakeAnalyzer{name: "pikachu"}
	saver := &fakeCustomSaver{pokemon: &pokeapi.Pokemon{ID: 25, Name: "pikachu"}}
	h := NewImageHandler(store, analyzer, saver, testLogger(), nil, 10<<20)
	router := newImageTestRouter(h)

	body, contentType := multipartImage(t, "photo.png", "image/png")
	req := httptest.NewRequest(http.MethodPost, "/images/identify", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	got := decodeBody(t, rec)
	if got["success"] != true {
		t.Errorf("success = %v, want true", got["success"])
	}
	if got["identifiedAs"] != "pikachu" {
		t.Errorf("identifiedAs = %v, want pikachu", got["identifiedAs"])
	}
	if len(store.uploads) != 1 {
		t.Errorf("expected 1 upload, got %d", len(store.uploads))
	}
}

func TestImageHandler_Identify_Unknown(t *testing.T) {
	t.Parallel()

	h := NewImageHandler(newFakeImageStore(), &fakeAnalyzer{name: "unknown"}, &fakeCustomSaver{}, testLogger(), nil, 10<<20)
	router := newImageTestRouter(h)

	body, contentType := multipartImage(t, "photo.png", "image/png")
	req := httptest.NewRequest(http.MethodPost, "/images/identify", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	got := decodeBody(t, rec)
	if got["success"] != false {
		t.Errorf("success = %v, want false", got["success"])
	}
	if got["uploadedImageUrl"] == nil {
		t.Error("expected uploadedImageUrl even on a miss")
	}
}

func TestImageHandler_Identify_NonImageContentType(t *testing.T) {
	t.Parallel()

	h := NewImageHandler(newFakeImageStore(), &fakeAnalyzer{}, &fakeCustomSaver{}, testLogger(), nil, 10<<20)
	router := newImageTestRouter(h)

	body, contentType := multipartImage(t, "notes.txt", "text/plain")
	req := httptest.NewRequest(http.MethodPost, "/images/identify", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec); got["error"] != "Only image files are allowed" {
		t.Errorf("error = %v, want 'Only image files are allowed'", got["error"])
	}
}

func TestImageHandler_Pokemonize_GenerationFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	analysis := &ai.Analysis{
		SuggestedPokemon: "Sparkfox",
		ImagePrompt:      "an electric fox creature",
	}
	analyzer := &fakeAnalyzer{analysis: analysis, genErr: ai.ErrAnalysisFailed}
	h := NewImageHandler(newFakeImageStore(), analyzer, &fakeCustomSaver{}, testLogger(), nil, 10<<20)
	router := newImageTestRouter(h)

	body, contentType := multipartImage(t, "me.png", "image/png")
	req := httptest.NewRequest(http.MethodPost, "/images/pokemonize", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	got := decodeBody(t, rec)
	if got["success"] != true {
		t.Errorf("success = %v, want true", got["success"])
	}
	if got["analysis"] == nil {
		t.Error("expected analysis in response")
	}
}

func TestImageHandler_Identify_NoFile(t *testing.T) {
	t.Parallel()

	h := NewImageHandler(newFakeImageStore(), &fakeAnalyzer{}, &fakeCustomSaver{}, testLogger(), nil, 10<<20)
	router := newImageTestRouter(h)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/images/identify", strings.NewReader(""))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "No image file provided" {
		t.Errorf("error = %v, want 'No image file provided'", body["error"])
	}
}
