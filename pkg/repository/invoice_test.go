package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	tests := []struct {
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{0, 10, 0, 10},
		{-5, 10, 0, 10},
		{20, 0, 20, MaxListLimit},
		{0, 1000, 0, MaxListLimit},
		{3, -1, 3, MaxListLimit},
	}
	for _, tt := range tests {
		skip, limit := Page(tt.skip, tt.limit)
		assert.Equal(t, tt.wantSkip, skip)
		assert.Equal(t, tt.wantLimit, limit)
	}
}
