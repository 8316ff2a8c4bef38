package detector

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	var req *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"detections":[
			{"label":"Laptop","confidence":0.91,"box":{"x":10,"y":20,"width":200,"height":150}},
			{"label":"Computer-Mouse","confidence":0.64,"box":{"x":250,"y":120,"width":60,"height":40}}
		]}`)
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	detections, err := client.Detect(context.Background(), []byte("fake image bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/detect", req.URL.Path)
	assert.Contains(t, req.Header.Get("Content-Type"), "multipart/form-data")
	assert.Equal(t, []Detection{
		{Label: "Laptop", Confidence: 0.91, Box: Box{X: 10, Y: 20, Width: 200, Height: 150}},
		{Label: "Computer-Mouse", Confidence: 0.64, Box: Box{X: 250, Y: 120, Width: 60, Height: 40}},
	}, detections)
}

func TestDetectRuntimeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "inference blew up", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	_, err := client.Detect(context.Background(), []byte("img"))
	assert.ErrorContains(t, err, "status: 500")
}

func TestPing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok","model_loaded":true}`)
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	assert.NoError(t, client.Ping(context.Background()))
}

func TestPingModelNotLoaded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"degraded","model_loaded":false}`)
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	err := client.Ping(context.Background())
	assert.ErrorContains(t, err, "no model loaded")
}

func TestPingUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	assert.Error(t, client.Ping(context.Background()))
}
