package crawl

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REPOGRAPH_TEST_REDIS")
	if url == "" {
		t.Skip("REPOGRAPH_TEST_REDIS not set")
	}
	ctx := context.Background()

	s, err := NewRedisStore(ctx, url, "repograph:test:"+t.Name())
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Reset(ctx))
	defer s.Reset(ctx)

	require.NoError(t, s.Append(ctx, "https://r/a/", []string{"https://r/a/m.xml", "https://r/a/n.xml"}))
	require.NoError(t, s.Append(ctx, "https://r/b/", nil))

	cp, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, cp.Len())
	require.Equal(t, []string{"https://r/a/m.xml", "https://r/a/n.xml"}, cp.Get("https://r/a/"))
	require.True(t, cp.Done("https://r/b/"))
	require.Empty(t, cp.Get("https://r/b/"))
}
