package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleHealthReportsSessionCount(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("got status field %v, want ok", body["status"])
	}
}

func TestCreateAndFetchSessionRoundTrip(t *testing.T) {
	s := NewServer(0)

	reqBody, _ := json.Marshal(CompileCreateRequest{
		FileName: "a.c",
		Source:   "#define N 3\nint x = N;\n",
	})
	createReq := httptest.NewRequest(http.MethodPost, "/api/v1/session", bytes.NewReader(reqBody))
	createW := httptest.NewRecorder()
	s.Handler().ServeHTTP(createW, createReq)

	if createW.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201: %s", createW.Code, createW.Body.String())
	}
	var created SessionCreateResponse
	if err := json.NewDecoder(createW.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	if created.SessionID == "" {
		t.Fatal("got empty session ID")
	}

	statusReq := httptest.NewRequest(http.MethodGet, "/api/v1/session/"+created.SessionID, nil)
	statusW := httptest.NewRecorder()
	s.Handler().ServeHTTP(statusW, statusReq)

	if statusW.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", statusW.Code, statusW.Body.String())
	}
	var status SessionStatusResponse
	if err := json.NewDecoder(statusW.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode status response: %v", err)
	}
	if status.FileName != "a.c" {
		t.Errorf("got FileName %q, want a.c", status.FileName)
	}
	if status.Output == "" {
		t.Error("got empty preprocessed output")
	}
}

func TestGetSessionStatusNotFound(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/does-not-exist", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}

func TestListSessionsRoute(t *testing.T) {
	s := NewServer(0)

	body, _ := json.Marshal(CompileCreateRequest{Source: "int x;\n"})
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/session", bytes.NewReader(body)))

	listW := httptest.NewRecorder()
	s.Handler().ServeHTTP(listW, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	if listW.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", listW.Code)
	}

	var resp struct {
		Sessions []string `json:"sessions"`
		Count    int      `json:"count"`
	}
	if err := json.NewDecoder(listW.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("got count %d, want 1", resp.Count)
	}
}

func TestDeleteSessionRoute(t *testing.T) {
	s := NewServer(0)

	body, _ := json.Marshal(CompileCreateRequest{Source: "int x;\n"})
	createW := httptest.NewRecorder()
	s.Handler().ServeHTTP(createW, httptest.NewRequest(http.MethodPost, "/api/v1/session", bytes.NewReader(body)))
	var created SessionCreateResponse
	json.NewDecoder(createW.Body).Decode(&created)

	delReq := httptest.NewRequest(http.MethodDelete, "/api/v1/session/"+created.SessionID, nil)
	delW := httptest.NewRecorder()
	s.Handler().ServeHTTP(delW, delReq)
	if delW.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", delW.Code)
	}

	getW := httptest.NewRecorder()
	s.Handler().ServeHTTP(getW, httptest.NewRequest(http.MethodGet, "/api/v1/session/"+created.SessionID, nil))
	if getW.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404 after delete", getW.Code)
	}
}

func TestConfigRouteRejectsWrongMethod(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/config", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got status %d, want 405", w.Code)
	}
}

func TestCorsMiddlewareAllowsLocalhostOrigin(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("got Access-Control-Allow-Origin %q, want the localhost origin echoed back", got)
	}
}
