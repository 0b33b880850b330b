package target

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOctopus(t *testing.T, cfg Config, h http.HandlerFunc) (*Octopus, afero.Fs) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	fs := afero.NewMemMapFs()
	cfg.URL = srv.URL + "/"
	if cfg.APIKey == "" {
		cfg.APIKey = "API-TEST"
	}
	return NewOctopus(cfg, fs, zap.NewNop()), fs
}

func TestOctopus_ListPackages(t *testing.T) {
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	all := []packageResource{
		{PackageID: "Foo", Version: "1.0", LastModifiedOn: modified},
		{PackageID: "Foo.Extensions", Version: "9.9", LastModifiedOn: modified},
		{PackageID: "Foo", Version: "1.1", LastModifiedOn: modified.Add(time.Hour)},
		{PackageID: "Foo", Version: "1.2", LastModifiedOn: modified.Add(2 * time.Hour)},
	}

	var calls int
	o, _ := newTestOctopus(t, Config{PageSize: 2}, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/packages", r.URL.Path)
		assert.Equal(t, "API-TEST", r.Header.Get(apiKeyHeader))
		assert.Equal(t, "Foo", r.URL.Query().Get("nuGetPackageId"))
		assert.Equal(t, "2", r.URL.Query().Get("take"))

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		end := min(skip+2, len(all))
		_ = json.NewEncoder(w).Encode(packagePage{TotalResults: len(all), Items: all[skip:end]})
	})

	entries, err := o.ListPackages(context.Background(), "Foo")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, entries, 3)
	assert.Equal(t, "1.0", entries[0].Version)
	assert.Equal(t, "1.2", entries[2].Version)
	assert.True(t, entries[1].LastModifiedOn.Equal(modified.Add(time.Hour)))
}

func TestOctopus_ListPackages_Empty(t *testing.T) {
	o, _ := newTestOctopus(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"TotalResults": 0, "Items": []}`))
	})

	entries, err := o.ListPackages(context.Background(), "Foo")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOctopus_ListPackages_Space(t *testing.T) {
	o, _ := newTestOctopus(t, Config{Space: "Spaces-2"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Spaces-2/packages", r.URL.Path)
		_, _ = w.Write([]byte(`{"TotalResults": 0, "Items": []}`))
	})

	_, err := o.ListPackages(context.Background(), "Foo")
	require.NoError(t, err)
}

func TestOctopus_ListPackages_Errors(t *testing.T) {
	t.Run("Unauthorized", func(t *testing.T) {
		o, _ := newTestOctopus(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid API key", http.StatusUnauthorized)
		})

		_, err := o.ListPackages(context.Background(), "Foo")
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
		assert.Equal(t, http.MethodGet, statusErr.Method)
		assert.Contains(t, err.Error(), "invalid API key")
	})

	t.Run("Malformed", func(t *testing.T) {
		o, _ := newTestOctopus(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		})

		_, err := o.ListPackages(context.Background(), "Foo")
		assert.ErrorContains(t, err, "decode")
	})
}

func TestOctopus_PushPackage(t *testing.T) {
	var received string
	var filename string
	o, fs := newTestOctopus(t, Config{Overwrite: true, Space: "Spaces-1"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/Spaces-1/packages/raw", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("replace"))
		assert.Equal(t, "OverwriteExisting", r.URL.Query().Get("overwriteMode"))
		assert.Equal(t, "API-TEST", r.Header.Get(apiKeyHeader))

		file, header, err := r.FormFile("data")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		received = string(data)
		filename = header.Filename
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, afero.WriteFile(fs, "/staging/Foo.1.1.nupkg", []byte("PK-artifact"), 0o644))

	err := o.PushPackage(context.Background(), "Foo", "1.1", "/staging/Foo.1.1.nupkg")
	require.NoError(t, err)
	assert.Equal(t, "PK-artifact", received)
	assert.Equal(t, "Foo.1.1.nupkg", filename)
}

func TestOctopus_PushPackage_NoOverwrite(t *testing.T) {
	o, fs := newTestOctopus(t, Config{Overwrite: false}, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusCreated)
	})
	require.NoError(t, afero.WriteFile(fs, "/staging/Foo.1.1.nupkg", []byte("x"), 0o644))

	require.NoError(t, o.PushPackage(context.Background(), "Foo", "1.1", "/staging/Foo.1.1.nupkg"))
}

func TestOctopus_PushPackage_Errors(t *testing.T) {
	t.Run("Rejected", func(t *testing.T) {
		o, fs := newTestOctopus(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			http.Error(w, "package already exists", http.StatusBadRequest)
		})
		require.NoError(t, afero.WriteFile(fs, "/staging/Foo.1.1.nupkg", []byte("x"), 0o644))

		err := o.PushPackage(context.Background(), "Foo", "1.1", "/staging/Foo.1.1.nupkg")
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
		assert.Equal(t, http.MethodPost, statusErr.Method)
	})

	t.Run("MissingFile", func(t *testing.T) {
		o, _ := newTestOctopus(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
			t.Error("server must not be called")
		})

		err := o.PushPackage(context.Background(), "Foo", "1.1", "/staging/missing.nupkg")
		assert.ErrorContains(t, err, "open staged package")
	})
}

func TestNewOctopus_DefaultPageSize(t *testing.T) {
	o := NewOctopus(Config{URL: "https://deploy.example.com/"}, afero.NewMemMapFs(), zap.NewNop())
	assert.Equal(t, 100, o.pageSize)
	assert.Equal(t, "https://deploy.example.com/api/packages", o.apiPath("packages"))
}
