package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    Price
		wantErr error
	}{
		{in: "10", want: 1000},
		{in: "10.5", want: 1050},
		{in: "10.50", want: 1050},
		{in: " 0.01 ", want: 1},
		{in: "0", want: 0},
		{in: "99999.99", want: MaxPrice},
		{in: "00012.30", want: 1230},
		{in: "100000", wantErr: ErrInvalidPrice},
		{in: "-1", wantErr: ErrInvalidPrice},
		{in: "1.234", wantErr: ErrPriceScale},
		{in: "abc", wantErr: ErrInvalidPrice},
		{in: "1.", wantErr: ErrInvalidPrice},
		{in: ".5", wantErr: ErrInvalidPrice},
		{in: "", wantErr: ErrInvalidPrice},
		{in: "1e3", wantErr: ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrice_FieldError(t *testing.T) {
	_, err := ParsePrice("x")
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, appErr.Code)
	assert.Contains(t, appErr.Fields, "price")
}

func TestPrice_String(t *testing.T) {
	assert.Equal(t, "10.00", Price(1000).String())
	assert.Equal(t, "0.05", Price(5).String())
	assert.Equal(t, "99999.99", MaxPrice.String())
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name       string
		sum, count int64
		want       string
	}{
		{"单个评分", 5, 1, "5.00"},
		{"循环小数向上舍入", 14, 3, "4.67"},
		{"循环小数向下舍入", 13, 3, "4.33"},
		{"恰好一半向上", 5, 2, "2.50"},
		{"三分之一", 1, 3, "0.33"},
		{"六分之五", 5, 6, "0.83"},
		{"八分之一 0.125 → 0.13", 1, 8, "0.13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := AverageRating(tt.sum, tt.count)
			require.True(t, ok)
			assert.Equal(t, tt.want, r.String())
		})
	}

	_, ok := AverageRating(0, 0)
	assert.False(t, ok)
	assert.Nil(t, Aggregate{}.Rating())
}
