package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	require.Equal(t, Pagination{Page: 1, PageSize: 25, Total: 0, TotalPages: 0}, NewPagination(1, 25, 0))
	require.Equal(t, 1, NewPagination(1, 25, 25).TotalPages)
	require.Equal(t, 2, NewPagination(1, 25, 26).TotalPages)
	require.Equal(t, 0, NewPagination(1, 0, 10).TotalPages)
}
