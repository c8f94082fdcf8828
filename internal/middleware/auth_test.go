package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-jwt-secret"

func signUserToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func setupAuthRouter() (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var seenUserID uuid.UUID
	router.GET("/protected", Auth(testSecret), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		seenUserID = userID
		c.Status(http.StatusOK)
	})
	return router, &seenUserID
}

func TestAuth_ValidToken(t *testing.T) {
	router, seenUserID := setupAuthRouter()
	userID := uuid.New()
	token := signUserToken(t, testSecret, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	if *seenUserID != userID {
		t.Errorf("handler saw user ID %v, want %v", *seenUserID, userID)
	}
}

func TestAuth_SubClaimFallback(t *testing.T) {
	router, seenUserID := setupAuthRouter()
	userID := uuid.New()
	token := signUserToken(t, testSecret, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if *seenUserID != userID {
		t.Errorf("handler saw user ID %v, want %v", *seenUserID, userID)
	}
}

func TestAuth_Rejections(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "missing header",
			header: "",
		},
		{
			name:   "malformed header",
			header: "NotBearer something",
		},
		{
			name: "wrong secret",
			header: "Bearer " + func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"user_id": userID.String(),
					"exp":     time.Now().Add(time.Hour).Unix(),
				})
				signed, _ := token.SignedString([]byte("other-secret"))
				return signed
			}(),
		},
		{
			name:   "garbage token",
			header: "Bearer not.a.token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupAuthRouter()
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	router, _ := setupAuthRouter()
	token := signUserToken(t, testSecret, jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestParseUserToken_MissingUserClaim(t *testing.T) {
	token := signUserToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if _, err := ParseUserToken(token, testSecret); err == nil {
		t.Error("ParseUserToken() without a user claim succeeded, want error")
	}
}

func TestParseUserToken_NonUUIDUserClaim(t *testing.T) {
	token := signUserToken(t, testSecret, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	if _, err := ParseUserToken(token, testSecret); err == nil {
		t.Error("ParseUserToken() with a non-UUID user claim succeeded, want error")
	}
}
