package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	p := New(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestNew_CapsPerPage(t *testing.T) {
	p := New(3, 500)
	assert.Equal(t, MaxPerPage, p.PerPage)
	assert.Equal(t, 2*MaxPerPage, p.Offset)
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?page=2&per_page=5", nil)
	p := FromRequest(r)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.PerPage)
	assert.Equal(t, 5, p.Offset)

	r = httptest.NewRequest("GET", "/search?page=abc&per_page=-1", nil)
	assert.Equal(t, DefaultParams(), FromRequest(r))
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, Slice(items, New(1, 3)))
	assert.Equal(t, []int{7}, Slice(items, New(3, 3)))
	assert.Equal(t, []int{}, Slice(items, New(4, 3)))
	assert.Equal(t, []int{}, Slice([]int(nil), New(1, 3)))
}

func TestNewResult(t *testing.T) {
	r := NewResult([]string{"a", "b"}, 5, New(2, 2))
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.True(t, r.HasPrev)

	empty := NewResult[string](nil, 0, New(1, 12))
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}
