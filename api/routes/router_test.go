package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bernardo0921/AgriGuide-Backend/internal/auth"
	"github.com/bernardo0921/AgriGuide-Backend/internal/chat"
	"github.com/bernardo0921/AgriGuide-Backend/internal/community"
	"github.com/bernardo0921/AgriGuide-Backend/internal/media"
	"github.com/bernardo0921/AgriGuide-Backend/internal/profiles"
	"github.com/bernardo0921/AgriGuide-Backend/internal/tips"
	"github.com/bernardo0921/AgriGuide-Backend/internal/tutorials"
	"github.com/bernardo0921/AgriGuide-Backend/internal/users"
	pkgAuth "github.com/bernardo0921/AgriGuide-Backend/pkg/auth"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/config"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/gemini"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (f *fakeRateStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{Token: "token", User: &users.UserDTO{}}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, accessID string, req auth.ChangePasswordRequest) (*auth.AuthResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Verify(ctx context.Context, userID uuid.UUID) (*auth.VerifyResponse, error) {
	return &auth.VerifyResponse{Valid: true, User: &users.UserDTO{ID: userID}}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{Token: "token", User: &users.UserDTO{Username: req.Username}}, nil
}

type stubProfileService struct{}

func (stubProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{UserDTO: users.UserDTO{ID: userID}}, nil
}

func (stubProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req profiles.UpdateProfileRequest) (*profiles.ProfileDTO, error) {
	panic("unimplemented")
}

func (stubProfileService) SetProfilePicture(ctx context.Context, userID uuid.UUID, key string) (*profiles.ProfileDTO, error) {
	panic("unimplemented")
}

type stubMediaService struct{}

func (stubMediaService) Upload(ctx context.Context, kind enums.MediaKind, filename string, size int64, body io.Reader) (*media.UploadResult, error) {
	panic("unimplemented")
}

func (stubMediaService) Delete(ctx context.Context, key string) error {
	panic("unimplemented")
}

func (stubMediaService) ResolveURL(key *string) *string {
	return key
}

type stubCommunityService struct{}

func (stubCommunityService) CreatePost(ctx context.Context, userID uuid.UUID, req community.CreatePostRequest) (*community.PostDTO, error) {
	panic("unimplemented")
}

func (stubCommunityService) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*community.PostDTO, error) {
	return &community.PostDTO{ID: postID}, nil
}

func (stubCommunityService) ListPosts(ctx context.Context, viewerID uuid.UUID, params community.ListParams) (*community.ListResult, error) {
	return &community.ListResult{Items: []community.PostDTO{}}, nil
}

func (stubCommunityService) UpdatePost(ctx context.Context, userID, postID uuid.UUID, req community.UpdatePostRequest) (*community.PostDTO, error) {
	panic("unimplemented")
}

func (stubCommunityService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	panic("unimplemented")
}

func (stubCommunityService) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*community.LikeResultDTO, error) {
	return &community.LikeResultDTO{PostID: postID, Liked: true, LikesCount: 1}, nil
}

func (stubCommunityService) ListComments(ctx context.Context, postID uuid.UUID) ([]community.CommentDTO, error) {
	return []community.CommentDTO{}, nil
}

func (stubCommunityService) CreateComment(ctx context.Context, userID, postID uuid.UUID, req community.CreateCommentRequest) (*community.CommentDTO, error) {
	panic("unimplemented")
}

func (stubCommunityService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	panic("unimplemented")
}

func (stubCommunityService) PostData(ctx context.Context, postID uuid.UUID) (*community.PostDTO, error) {
	return &community.PostDTO{ID: postID}, nil
}

func (stubCommunityService) FallbackPage(ctx context.Context, postID uuid.UUID) (*community.FallbackPageData, error) {
	return &community.FallbackPageData{PostID: postID, AuthorName: "Ama Mensah", ContentPreview: "Mulching tips"}, nil
}

func (stubCommunityService) ShareMetadata(ctx context.Context, postID uuid.UUID) (map[string]string, error) {
	return map[string]string{"title": "Community Post"}, nil
}

func (stubCommunityService) TrackShare(ctx context.Context, postID uuid.UUID) error {
	return nil
}

type stubTutorialService struct{}

func (stubTutorialService) Create(ctx context.Context, uploaderID uuid.UUID, uploaderType enums.UserType, req tutorials.CreateTutorialRequest) (*tutorials.TutorialDTO, error) {
	return &tutorials.TutorialDTO{Title: req.Title}, nil
}

func (stubTutorialService) Get(ctx context.Context, id uuid.UUID) (*tutorials.TutorialDTO, error) {
	return &tutorials.TutorialDTO{ID: id}, nil
}

func (stubTutorialService) List(ctx context.Context, params tutorials.ListParams) (*tutorials.ListResult, error) {
	return &tutorials.ListResult{Items: []tutorials.TutorialDTO{}}, nil
}

func (stubTutorialService) Update(ctx context.Context, userID, id uuid.UUID, req tutorials.UpdateTutorialRequest) (*tutorials.TutorialDTO, error) {
	panic("unimplemented")
}

func (stubTutorialService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubTutorialService) IncrementViews(ctx context.Context, id uuid.UUID) (*tutorials.TutorialDTO, error) {
	panic("unimplemented")
}

func (stubTutorialService) Categories() []tutorials.CategoryDTO {
	return []tutorials.CategoryDTO{}
}

type stubChatService struct{}

func (stubChatService) SendTurn(ctx context.Context, userID uuid.UUID, req chat.SendRequest) (*chat.SendResponse, error) {
	panic("unimplemented")
}

func (stubChatService) ListSessions(ctx context.Context, userID uuid.UUID) ([]chat.SessionDTO, error) {
	return []chat.SessionDTO{}, nil
}

func (stubChatService) History(ctx context.Context, userID uuid.UUID, sessionID string) (*chat.HistoryResponse, error) {
	panic("unimplemented")
}

func (stubChatService) Clear(ctx context.Context, userID uuid.UUID, sessionID string) error {
	panic("unimplemented")
}

func (stubChatService) Delete(ctx context.Context, userID uuid.UUID, sessionID string) error {
	panic("unimplemented")
}

type cachedTipStore struct{}

func (cachedTipStore) Get(ctx context.Context, key string) (string, error) {
	return "Mulch retains moisture.", nil
}

func (cachedTipStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (cachedTipStore) TipKey(date string) string {
	return "tip:" + date
}

type idleGenerator struct{}

func (idleGenerator) GenerateContent(ctx context.Context, systemInstruction string, turns []gemini.Turn) (string, error) {
	return "", context.Canceled
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.Issuer = "agriguide-test"
	cfg.JWT.ExpirationMinutes = 60
	cfg.AuthRateLimit.LoginWindow = time.Minute
	cfg.AuthRateLimit.LoginIdentifierLimit = 5
	cfg.AuthRateLimit.LoginIPLimit = 20
	cfg.AuthRateLimit.RegisterWindow = 5 * time.Minute
	cfg.AuthRateLimit.RegisterEmailLimit = 3
	cfg.AuthRateLimit.RegisterIPLimit = 20
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	tipService, err := tips.NewService(tips.ServiceParams{
		Store:     cachedTipStore{},
		Generator: idleGenerator{},
		Logger:    logg,
	})
	if err != nil {
		t.Fatalf("tips service: %v", err)
	}
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		RateStore:       &fakeRateStore{},
		Sessions:        stubSessionChecker{},
		AuthService:     stubAuthService{},
		RegisterService: stubRegisterService{},
		ProfileService:  stubProfileService{},
		MediaService:    stubMediaService{},
		Community:       stubCommunityService{},
		Tutorials:       stubTutorialService{},
		Chat:            stubChatService{},
		Tips:            tipService,
		Prometheus:      prometheus.NewRegistry(),
	})
}

func mintToken(t *testing.T, cfg *config.Config, userType enums.UserType) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		UserType: userType,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, testConfig())

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t, testConfig())

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/profile/"},
		{http.MethodPost, "/api/chat/"},
		{http.MethodGet, "/api/farming-tip/"},
		{http.MethodGet, "/api/community/posts/"},
		{http.MethodGet, "/api/tutorials/"},
		{http.MethodPost, "/api/media/upload/"},
	}
	for _, tc := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestProtectedRouteAcceptsBearerToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserTypeFarmer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeepLinkRoutesArePublic(t *testing.T) {
	router := newTestRouter(t, testConfig())
	postID := uuid.NewString()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/post/"+postID+"/data/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("data: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/post/"+postID+"/track-share/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("track-share: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/post/"+postID+"/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("fallback page: expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("fallback page: expected html content type, got %q", ct)
	}
}

func TestFarmerRegistrationRoute(t *testing.T) {
	router := newTestRouter(t, testConfig())

	body := `{"username":"kwame","email":"kwame@example.com","phone_number":"+233201234567","password":"longenough1","first_name":"Kwame","last_name":"Osei"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register/farmer/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginRateLimitWiredToRoute(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimit.LoginIdentifierLimit = 1
	router := newTestRouter(t, cfg)

	body := `{"identifier":"ama","password":"whatever1"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		want := http.StatusOK
		if i == 1 {
			want = http.StatusTooManyRequests
		}
		if rec.Code != want {
			t.Fatalf("attempt %d: expected %d, got %d", i+1, want, rec.Code)
		}
	}
}

func TestTutorialUploadRequiresExtensionWorker(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/tutorials/my_tutorials/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserTypeFarmer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("farmer: expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/tutorials/my_tutorials/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserTypeExtensionWorker))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("extension worker: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFarmingTipRoute(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/farming-tip/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserTypeFarmer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Mulch retains moisture.") {
		t.Fatalf("expected cached tip in body, got %s", rec.Body.String())
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
