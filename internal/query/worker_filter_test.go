package query

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityservice/platform-backend/internal/pkg/apperror"
)

func ptr(s string) *string { return &s }

func TestBuildWorkerCriteria_EmptyFilterHasNoConstraints(t *testing.T) {
	c, err := BuildWorkerCriteria(WorkerFilter{})
	require.NoError(t, err)

	assert.Nil(t, c.Status)
	assert.Nil(t, c.CategoryID)
	assert.Nil(t, c.City)
	assert.Nil(t, c.Search)
	assert.Nil(t, c.IsActive)
	assert.Nil(t, c.MinRating)
	assert.Equal(t, Window{Page: 1, Limit: 10, Offset: 0}, c.Window)
}

func TestBuildWorkerCriteria_InvalidCategoryIsFormatError(t *testing.T) {
	_, err := BuildWorkerCriteria(WorkerFilter{Category: ptr("not-a-uuid")})

	require.Error(t, err)
	assert.True(t, apperror.IsFormat(err))
}

func TestBuildWorkerCriteria_ParsesValues(t *testing.T) {
	id := uuid.New()
	c, err := BuildWorkerCriteria(WorkerFilter{
		Category:  ptr(id.String()),
		City:      ptr("  Koch "),
		MinRating: ptr("3.5"),
		IsActive:  ptr("true"),
		Search:    ptr("9876"),
		Status:    ptr(""),
	})
	require.NoError(t, err)

	require.NotNil(t, c.CategoryID)
	assert.Equal(t, id, *c.CategoryID)
	assert.Equal(t, "Koch", *c.City)
	assert.Equal(t, 3.5, *c.MinRating)
	assert.True(t, *c.IsActive)
	assert.Equal(t, "9876", *c.Search)
	assert.Nil(t, c.Status)
}

func TestBuildWorkerCriteria_IsActiveOnlyTrueLiteral(t *testing.T) {
	for _, raw := range []string{"false", "1", "", "TRUE"} {
		c, err := BuildWorkerCriteria(WorkerFilter{IsActive: ptr(raw)})
		require.NoError(t, err)
		require.NotNil(t, c.IsActive, raw)
		assert.False(t, *c.IsActive, raw)
	}
}

func TestBuildWorkerCriteria_InvalidMinRating(t *testing.T) {
	for _, raw := range []string{"high", "NaN", "Inf", "+Inf", "-inf"} {
		_, err := BuildWorkerCriteria(WorkerFilter{MinRating: ptr(raw)})
		assert.True(t, apperror.IsValidation(err), raw)
	}
}

func TestNewWindow_OffsetNeverNegative(t *testing.T) {
	for _, limit := range []string{"1", "10", "100", "1000"} {
		w := NewWindow(ptr(strconv.Itoa(math.MaxInt)), ptr(limit))
		assert.GreaterOrEqual(t, w.Offset, 0, limit)
		assert.LessOrEqual(t, w.Page*w.Limit-w.Limit, w.Offset, limit)
	}
}

func TestNewWindow(t *testing.T) {
	cases := []struct {
		name        string
		page, limit *string
		want        Window
	}{
		{"defaults", nil, nil, Window{Page: 1, Limit: 10, Offset: 0}},
		{"third page", ptr("3"), ptr("20"), Window{Page: 3, Limit: 20, Offset: 40}},
		{"garbage", ptr("abc"), ptr("-5"), Window{Page: 1, Limit: 10, Offset: 0}},
		{"zero page", ptr("0"), ptr("5"), Window{Page: 1, Limit: 5, Offset: 0}},
		{"capped", ptr("2"), ptr("1000"), Window{Page: 2, Limit: MaxLimit, Offset: MaxLimit}},
		{"huge page", ptr("9223372036854775807"), ptr("10"), Window{Page: MaxPage(10), Limit: 10, Offset: (MaxPage(10) - 1) * 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewWindow(tc.page, tc.limit))
		})
	}
}

func TestWindow_OffsetWithinPage(t *testing.T) {
	for page := 1; page <= 5; page++ {
		for limit := 1; limit <= 25; limit += 6 {
			w := NewWindow(ptr(strconv.Itoa(page)), ptr(strconv.Itoa(limit)))
			assert.LessOrEqual(t, w.Page*w.Limit-w.Limit, w.Offset)
			assert.Less(t, w.Offset, w.Page*w.Limit)
		}
	}
}

func TestWindow_Paginate(t *testing.T) {
	w := Window{Page: 2, Limit: 10, Offset: 10}

	p := w.Paginate(25)
	assert.Equal(t, Pagination{CurrentPage: 2, Limit: 10, TotalPages: 3, TotalWorkers: 25, HasNextPage: true, HasPrevPage: true}, p)

	p = w.Paginate(20)
	assert.Equal(t, 2, p.TotalPages)
	assert.False(t, p.HasNextPage)

	p = Window{Page: 1, Limit: 10}.Paginate(0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}

func TestFilterFromValues_PresenceMatters(t *testing.T) {
	values, err := url.ParseQuery("isActive=&city=Kochi&page=2")
	require.NoError(t, err)

	f := FilterFromValues(values)

	require.NotNil(t, f.IsActive)
	assert.Equal(t, "", *f.IsActive)
	assert.Equal(t, "Kochi", *f.City)
	assert.Equal(t, "2", *f.Page)
	assert.Nil(t, f.Search)
	assert.Nil(t, f.Category)
}
