package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractZip(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"single zip", "500 David J Stern Walk Sacramento, CA 95814", "95814"},
		{"last of several", "12345 Main St, Hollywood, FL 33021", "33021"},
		{"zip plus four", "1 Market St, San Francisco, CA 94105-1420", "94105"},
		{"zip only", "10001", "10001"},
		{"no zip", "Hollywood, FL", ""},
		{"too many digits", "Apt 123456, Springfield", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			address := tt.address
			got, err := ExtractZip(&address)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, ZipOf(tt.address))
		})
	}
}

func TestExtractZip_NilAddress(t *testing.T) {
	_, err := ExtractZip(nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "address is required", Reason(err))
}
