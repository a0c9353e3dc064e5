package pagination_test

import (
	"testing"
	"time"

	"github.com/commerceos/commerceos_backend/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 15, 10, 30, 0, 123456789, time.UTC)
	id := "prod-42"

	token := pagination.EncodeCursor(createdAt, id)
	gotTime, gotID, err := pagination.DecodeCursor(token)

	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	_, _, err := pagination.DecodeCursor("not-base64!!!")
	assert.Error(t, err)

	_, _, err = pagination.DecodeCursor("bm8gc2VwYXJhdG9y") // "no separator"
	assert.Error(t, err)
}
