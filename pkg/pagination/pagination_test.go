package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func ctxWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParseDefaults(t *testing.T) {
	p := Parse(ctxWithQuery(""))
	if p.Page != DefaultPage || p.Limit != DefaultLimit || p.Offset != 0 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestParseClampsLimit(t *testing.T) {
	p := Parse(ctxWithQuery("page=3&limit=500"))
	if p.Limit != MaxLimit {
		t.Fatalf("expected limit %d, got %d", MaxLimit, p.Limit)
	}
	if p.Offset != (3-1)*MaxLimit {
		t.Fatalf("unexpected offset %d", p.Offset)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	p := Parse(ctxWithQuery("page=-1&limit=abc"))
	if p.Page != DefaultPage || p.Limit != DefaultLimit {
		t.Fatalf("unexpected params: %+v", p)
	}
}
