package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokens records how often VerifyToken is reached
type fakeTokens struct {
	verifyCalls int
	claims      *TokenClaims
	err         error
}

func (f *fakeTokens) CreateToken(userID, email string, d time.Duration) (string, error) {
	return "token", nil
}

func (f *fakeTokens) VerifyToken(token string) (*TokenClaims, error) {
	f.verifyCalls++
	return f.claims, f.err
}

func serveProtected(t *testing.T, ts TokenService, header string) (*httptest.ResponseRecorder, *Identity) {
	t.Helper()

	var seen *Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = &id
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}

	rec := httptest.NewRecorder()
	NewMiddleware(ts).RequireAuth(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireAuth_MissingTokenSkipsVerify(t *testing.T) {
	for name, header := range map[string]string{
		"no header":    "",
		"empty bearer": "Bearer ",
	} {
		t.Run(name, func(t *testing.T) {
			ts := &fakeTokens{}
			rec, seen := serveProtected(t, ts, header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized","code":"UNAUTHORIZED"}`, rec.Body.String())
			assert.Zero(t, ts.verifyCalls)
			assert.Nil(t, seen)
		})
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := &fakeTokens{claims: &TokenClaims{UserID: "u1", Email: "a@x.com"}}
	rec, seen := serveProtected(t, ts, "Bearer abc")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, Identity{UserID: "u1", Email: "a@x.com"}, *seen)
	assert.Equal(t, 1, ts.verifyCalls)
}

func TestRequireAuth_HeaderWithoutBearerPrefixIsVerifiedAsIs(t *testing.T) {
	ts := &fakeTokens{claims: &TokenClaims{UserID: "u1"}}
	rec, _ := serveProtected(t, ts, "abc")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, ts.verifyCalls)
}

func TestRequireAuth_ExpiredAndForgedLookTheSame(t *testing.T) {
	svc, err := NewJWTService([]byte("secret"))
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
	expired, err := svc.CreateToken("u1", "a@x.com", time.Hour)
	require.NoError(t, err)
	svc.now = time.Now

	other, err := NewJWTService([]byte("other"))
	require.NoError(t, err)
	forged, err := other.CreateToken("u1", "a@x.com", time.Hour)
	require.NoError(t, err)

	expiredRec, _ := serveProtected(t, svc, "Bearer "+expired)
	forgedRec, _ := serveProtected(t, svc, "Bearer "+forged)
	garbageRec, _ := serveProtected(t, &fakeTokens{err: errors.New("boom")}, "Bearer x")

	for _, rec := range []*httptest.ResponseRecorder{expiredRec, forgedRec, garbageRec} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, expiredRec.Body.String(), rec.Body.String())
	}
}
