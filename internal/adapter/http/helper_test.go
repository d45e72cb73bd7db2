package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestIDList_Unmarshal(t *testing.T) {
	var scalar struct {
		IDs IDList `json:"equipment_id"`
	}
	if err := json.Unmarshal([]byte(`{"equipment_id": 7}`), &scalar); err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if len(scalar.IDs) != 1 || scalar.IDs[0] != 7 {
		t.Fatalf("scalar IDs = %v", scalar.IDs)
	}

	var list struct {
		IDs IDList `json:"equipment_id"`
	}
	if err := json.Unmarshal([]byte(`{"equipment_id": [1, 2, 3]}`), &list); err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.IDs) != 3 || list.IDs[2] != 3 {
		t.Fatalf("list IDs = %v", list.IDs)
	}

	var bad struct {
		IDs IDList `json:"equipment_id"`
	}
	if err := json.Unmarshal([]byte(`{"equipment_id": "ten"}`), &bad); err == nil {
		t.Fatalf("string input should fail")
	}
}

func TestActorID(t *testing.T) {
	e := echo.New()

	ctx := func(header string) echo.Context {
		req := httptest.NewRequest(stdhttp.MethodPost, "/", strings.NewReader("{}"))
		if header != "" {
			req.Header.Set("Ax-Actor-Id", header)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	if got := actorID(ctx("42"), 7); got != 42 {
		t.Fatalf("header actor = %d, want 42", got)
	}
	if got := actorID(ctx(""), 7); got != 7 {
		t.Fatalf("fallback actor = %d, want 7", got)
	}
	if got := actorID(ctx("not-a-number"), 7); got != 7 {
		t.Fatalf("garbage header actor = %d, want fallback 7", got)
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()
	withParam := func(val string) echo.Context {
		req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(val)
		return c
	}

	if id, ok := pathID(withParam("15"), "id"); !ok || id != 15 {
		t.Fatalf("pathID(15) = %d, %v", id, ok)
	}
	if _, ok := pathID(withParam("0"), "id"); ok {
		t.Fatalf("zero id must not pass")
	}
	if _, ok := pathID(withParam("abc"), "id"); ok {
		t.Fatalf("non-numeric id must not pass")
	}
}
