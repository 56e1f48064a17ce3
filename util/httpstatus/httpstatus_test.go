package httpstatus

import (
	"testing"

	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code int
		want Class
	}{
		{100, Informational},
		{200, Success},
		{204, Success},
		{301, Redirection},
		{404, ClientError},
		{499, ClientError},
		{500, ServerError},
		{599, ServerError},
	}
	for _, tt := range tests {
		got, err := Classify(tt.code)
		require.NoError(t, err, "code %d", tt.code)
		assert.Equal(t, tt.want, got, "code %d", tt.code)
	}
}

func TestClassifyOutOfRange(t *testing.T) {
	for _, code := range []int{-1, 0, 99, 600, 1000} {
		_, err := Classify(code)
		require.Error(t, err, "code %d", code)
		assert.True(t, errors.Is(err, errors.ErrCodeOutOfRange))
	}
}

func TestText(t *testing.T) {
	text, err := Text(404)
	require.NoError(t, err)
	assert.Equal(t, "Not Found", text)

	text, err = Text(299)
	require.NoError(t, err)
	assert.Equal(t, "success", text)

	_, err = Text(700)
	assert.True(t, errors.Is(err, errors.ErrCodeOutOfRange))
}

func TestIsError(t *testing.T) {
	assert.False(t, IsError(200))
	assert.True(t, IsError(404))
	assert.True(t, IsError(503))
	assert.False(t, IsError(42))
}

func TestRecord(t *testing.T) {
	r := reporter.New(nil)
	defer r.Close()

	require.NoError(t, Record(r, "http", 200))
	require.NoError(t, Record(r, "http", 201))
	require.NoError(t, Record(r, "http", 503))

	snap := r.Snapshot()
	assert.Equal(t, 3.0, snap["http.total"])
	assert.Equal(t, 2.0, snap["http.success"])
	assert.Equal(t, 1.0, snap["http.server_error"])
	assert.Equal(t, 503, snap["http.last"])
	assert.Equal(t, uint64(3), r.Commits())

	err := Record(r, "http", 42)
	assert.True(t, errors.Is(err, errors.ErrCodeOutOfRange))
	assert.Equal(t, snap, r.Snapshot())
}
