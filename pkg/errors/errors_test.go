package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "with status code",
			err:  NewAPIError("https://www.amiiboapi.com/api/amiibo", 503, "service unavailable"),
			want: "API error from https://www.amiiboapi.com/api/amiibo (status 503): service unavailable",
		},
		{
			name: "without status code",
			err:  &APIError{Endpoint: "https://www.amiiboapi.com/api/amiibo", Message: "connection refused"},
			want: "API error from https://www.amiiboapi.com/api/amiibo: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := New("connection reset")
	err := WrapAPI("http://example.com", 0, cause)

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, cause))
}

func TestDecodeError(t *testing.T) {
	cause := New("unexpected end of JSON input")
	err := WrapDecode("json", "catalog response", cause)

	require.Error(t, err)
	assert.Equal(t, "json decode error in catalog response: unexpected end of JSON input", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestStorageError(t *testing.T) {
	err := WrapStorage("clear", "item", New("disk full"))

	require.Error(t, err)
	assert.Equal(t, "storage error during clear of item: disk full", err.Error())

	var storageErr *StorageError
	assert.True(t, stderrors.As(err, &storageErr))
	assert.Equal(t, "clear", storageErr.Operation)
}

func TestSentinelChecks(t *testing.T) {
	assert.True(t, IsAlreadyOwned(fmt.Errorf("adding item: %w", ErrAlreadyOwned)))
	assert.True(t, IsEmptyStore(WrapStorage("read", "item", ErrEmptyStore)))
	assert.True(t, IsNotFound(fmt.Errorf("image: %w", ErrNotFound)))
	assert.True(t, IsTimeout(fmt.Errorf("fetch: %w", ErrTimeout)))
	assert.True(t, IsCanceled(fmt.Errorf("fetch: %w", ErrCanceled)))
	assert.False(t, IsAlreadyOwned(ErrNotFound))
}

func TestWrapHelpersNilPassthrough(t *testing.T) {
	assert.NoError(t, WrapAPI("endpoint", 500, nil))
	assert.NoError(t, WrapDecode("json", "payload", nil))
	assert.NoError(t, WrapStorage("write", "item", nil))
}
