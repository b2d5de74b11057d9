package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"modam/internal/catalog"
	"modam/internal/config"
	"modam/internal/diagnosis"
	"modam/internal/ledger"
	"modam/internal/models"
	"modam/internal/repository"
	"modam/internal/service"
)

// fakeStore is an in-memory stand-in for the S3 object store.
type fakeStore struct {
	fail    bool
	uploads int
}

func (f *fakeStore) EnsureBucket(ctx context.Context, bucket string) error { return nil }

func (f *fakeStore) Upload(ctx context.Context, bucket, filename string, body io.Reader) (string, error) {
	if f.fail {
		return "", fmt.Errorf("bucket %s unavailable", bucket)
	}
	f.uploads++
	return fmt.Sprintf("https://cdn.test/%s/%d-%s", bucket, f.uploads, filename), nil
}

type testServer struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	store  *fakeStore
}

// newTestServer wires a Server against sqlite and miniredis, with the
// analyzer delay zeroed so tests never wait.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Profile{}, &models.Post{},
		&models.Comment{}, &models.Review{},
	))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cat, err := catalog.Load()
	require.NoError(t, err)

	store := &fakeStore{}
	cfg := &config.Config{
		JWTSecret:            "test_secret",
		Env:                  "test",
		SessionTimeoutMS:     2000,
		ProfileFetchAttempts: 2,
		ProfileFetchDelayMS:  1,
	}

	s := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		reviewRepo:  repository.NewReviewRepository(db),
		ledger:      ledger.NewLedger(redisClient),
		analyzer:    diagnosis.NewAnalyzer(0),
		catalog:     cat,
		store:       store,
	}
	s.postService = service.NewPostService(s.postRepo, s.isAdminByUserID)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, s.isAdminByUserID)

	app := fiber.New()
	s.SetupRoutes(app)

	return &testServer{server: s, app: app, db: db, store: store}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// signup registers an account and returns its token.
func (ts *testServer) signup(t *testing.T, email, username string) string {
	t.Helper()
	resp := ts.request(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    email,
		"password": "modampass1",
		"username": username,
		"nickname": "테스터",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func pngUpload(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

// multipartBody builds a multipart form with string fields and named PNG
// file parts.
func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := w.CreateFormFile(name, name+".png")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}
