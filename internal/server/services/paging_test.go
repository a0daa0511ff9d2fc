package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaging(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		want       Paging
	}{
		{"defaults", 0, 0, Paging{Page: 1, Size: 20, Limit: 20, Offset: 0}},
		{"third page", 3, 10, Paging{Page: 3, Size: 10, Limit: 10, Offset: 20}},
		{"size clamped", 2, 500, Paging{Page: 2, Size: 100, Limit: 100, Offset: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPaging(tt.page, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NewPaging(-1, 10)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestPaging_CheckAndHasNext(t *testing.T) {
	p, _ := NewPaging(1, 10)
	assert.NoError(t, p.Check(0), "an empty first page is fine")
	assert.True(t, p.HasNext(11))
	assert.False(t, p.HasNext(10))

	p, _ = NewPaging(3, 10)
	assert.ErrorIs(t, p.Check(20), ErrInvalidPage)
	assert.NoError(t, p.Check(21))
}

func TestUnique(t *testing.T) {
	assert.Nil(t, unique(nil))
	assert.Equal(t, []string{"a", "b"}, unique([]string{"a", "", "b", "a"}))
}
