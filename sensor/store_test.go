package sensor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "chimchat/errors"
)

func Test_ReadPath_Returns_The_Raw_Subtree(t *testing.T) {
	req := require.New(t)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/sensors/livingroom.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"temperature":21.5,"humidity":40}`))
	}))
	defer backend.Close()

	store := NewStore(backend.URL, 5*time.Second)
	raw, err := store.ReadPath(context.Background(), "sensors/livingroom")

	req.NoError(err)
	req.JSONEq(`{"temperature":21.5,"humidity":40}`, string(raw))
}

func Test_ReadPath_Treats_Null_As_Absent(t *testing.T) {
	req := require.New(t)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}))
	defer backend.Close()

	store := NewStore(backend.URL, 5*time.Second)
	raw, err := store.ReadPath(context.Background(), "sensors/missing")

	req.NoError(err)
	req.Nil(raw)
}

func Test_ReadPath_Wraps_NonOK_Statuses(t *testing.T) {
	req := require.New(t)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
	}))
	defer backend.Close()

	store := NewStore(backend.URL, 5*time.Second)
	_, err := store.ReadPath(context.Background(), "sensors")

	req.ErrorIs(err, apperrors.ErrStorage)
}

func Test_ReadPath_Wraps_Transport_Errors(t *testing.T) {
	req := require.New(t)

	backend := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	backend.Close()

	store := NewStore(backend.URL, 1*time.Second)
	_, err := store.ReadPath(context.Background(), "sensors")

	req.ErrorIs(err, apperrors.ErrStorage)
}

func Test_ReadPath_Empty_Path_Reads_The_Root(t *testing.T) {
	req := require.New(t)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer backend.Close()

	store := NewStore(backend.URL, 5*time.Second)
	raw, err := store.ReadPath(context.Background(), "")

	req.NoError(err)
	req.Equal("{}", string(raw))
}
