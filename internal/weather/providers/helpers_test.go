package providers

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

const (
	testNominatimURL = "https://nominatim.test/search"
	testOpenMeteoURL = "https://open-meteo.test/v1/forecast"
)

// newMockTransport returns a mock transport and a single-attempt client
// config that routes through it.
func newMockTransport(t *testing.T) (*httpmock.MockTransport, HTTPClientConfig) {
	t.Helper()

	mt := httpmock.NewMockTransport()
	return mt, DefaultHTTPConfig(&http.Client{Transport: mt})
}

func fixture(t *testing.T, name string) string {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func writeDataset(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "zipcodes.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func intPtr(v int) *int {
	return &v
}
