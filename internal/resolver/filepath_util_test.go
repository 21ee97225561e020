package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoinPosix(t *testing.T) {
	require.Equal(t, "/a/b", joinPosix("/a", "b"))
	require.Equal(t, "/a/b/c", joinPosix("/a", "./b/c"))
	require.Equal(t, "/a", joinPosix("/a", ""))
	require.Equal(t, "/b", joinPosix("/a", "/b"))
	require.Equal(t, "/a", joinPosix("/a/b", "../"))
}

func TestCleanPosixCollapsesDotDot(t *testing.T) {
	require.Equal(t, "/a/c", cleanPosix("/a/b/../c"))
	require.Equal(t, "/", cleanPosix("/a/.."))
	require.Equal(t, "a/b", cleanPosix("./a/./b"))
	require.Equal(t, "..", cleanPosix(".."))
	require.Equal(t, "../b", cleanPosix("../b"))
}

func TestDirOf(t *testing.T) {
	require.Equal(t, "/a", dirOf("/a/b"))
	require.Equal(t, "/", dirOf("/a"))
	require.Equal(t, ".", dirOf("a"))
}
