package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bloodconnect_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type recordingDropper struct {
	dropped []string
}

func (d *recordingDropper) Drop(ownerEmail string) {
	d.dropped = append(d.dropped, ownerEmail)
}

func logoutContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	return c, w
}

func TestLogoutDropsTheCallersMapSession(t *testing.T) {
	dropper := &recordingDropper{}
	h := New(nil, dropper)

	c, w := logoutContext(t)
	c.Set(httpkit.ContextUserIDKey, uuid.New())
	c.Set(httpkit.ContextEmailKey, "karim@example.com")
	h.Logout(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(dropper.dropped) != 1 || dropper.dropped[0] != "karim@example.com" {
		t.Fatalf("expected the caller's session to be dropped, got %v", dropper.dropped)
	}
}

func TestLogoutRequiresAuthentication(t *testing.T) {
	dropper := &recordingDropper{}
	h := New(nil, dropper)

	c, w := logoutContext(t)
	h.Logout(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if len(dropper.dropped) != 0 {
		t.Fatalf("expected no session drop without an identity, got %v", dropper.dropped)
	}
}
