package orderlookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/ringsize-hub/internal/orders"
)

const orderJSON = `{
	"orderId": "12345",
	"image": "/test-image.jpg",
	"size": ["S", "M", "L"],
	"color": ["Red", "Blue"],
	"value": "Test / Red",
	"title": "Test Order"
}`

func TestOrderURL(t *testing.T) {
	c := New("http://test-service//", time.Second)
	assert.Equal(t, "http://test-service", c.BaseURL)
	assert.Equal(t, "http://test-service/order?orderId=12345", c.OrderURL("12345"))
	assert.Equal(t, "http://test-service/order?orderId=a+b%26c", c.OrderURL("a b&c"))
}

func TestFetchOK(t *testing.T) {
	var gotPath, gotQuery, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("orderId")
		gotCache = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(orderJSON))
	}))
	defer srv.Close()

	o, err := New(srv.URL, time.Second).Fetch(context.Background(), "12345")
	require.NoError(t, err)

	assert.Equal(t, "/order", gotPath)
	assert.Equal(t, "12345", gotQuery)
	assert.Equal(t, "no-store", gotCache)
	assert.Equal(t, &orders.OrderInformation{
		OrderID: "12345",
		Image:   "/test-image.jpg",
		Size:    []string{"S", "M", "L"},
		Color:   []string{"Red", "Blue"},
		Value:   "Test / Red",
		Title:   "Test Order",
	}, o)
}

func TestFetchNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	o, err := New(srv.URL, time.Second).Fetch(context.Background(), "12345")
	assert.ErrorIs(t, err, ErrUpstreamStatus)
	assert.Nil(t, o)
}

func TestFetchFalsyBody(t *testing.T) {
	for _, body := range []string{"", "null", "false"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		o, err := New(srv.URL, time.Second).Fetch(context.Background(), "12345")
		assert.ErrorIs(t, err, ErrNoOrder, "body %q", body)
		assert.Nil(t, o)
		srv.Close()
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	o, err := New(url, time.Second).Fetch(context.Background(), "12345")
	assert.Error(t, err)
	assert.Nil(t, o)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond).Fetch(context.Background(), "12345")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoadSwallowsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.Nil(t, New(srv.URL, time.Second).Load(context.Background(), "12345"))
}
