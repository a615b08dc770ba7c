package services

import (
	"context"
	"strings"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/cppla/microblog/testutil"
	"github.com/cppla/microblog/utils"
)

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	metrics := utils.NewMetrics()
	posts := NewPostService(db, metrics)
	author := testutil.CreateUser(t, db, "writer")

	post, err := posts.Create(ctx, author.ID, "  <script>alert(1)</script>first & best  ")
	require.NoError(t, err)
	require.NotZero(t, post.ID)
	require.Equal(t, "first & best", post.Body)
	require.Equal(t, "writer", post.Author.Username)
	require.False(t, post.Timestamp.IsZero())
	require.Equal(t, float64(1), promtestutil.ToFloat64(metrics.PostsCreated))

	encoded, err := posts.Create(ctx, author.ID, "&lt;img src=x onerror=alert(1)&gt;hi")
	require.NoError(t, err)
	require.Equal(t, "hi", encoded.Body)

	// 140 multi-byte characters still fit
	_, err = posts.Create(ctx, author.ID, strings.Repeat("é", 140))
	require.NoError(t, err)
}

func TestPostService_CreateRejectsBody(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	posts := NewPostService(db, nil)
	author := testutil.CreateUser(t, db, "writer")

	for name, body := range map[string]string{
		"empty":          "",
		"whitespace":     "   ",
		"markup":         "<p></p>",
		"encoded markup": "&lt;script&gt;alert(1)&lt;/script&gt;",
		"too long":       strings.Repeat("x", 141),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := posts.Create(ctx, author.ID, body)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	n, err := posts.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPostService_ExploreAndListByUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	posts := NewPostService(db, nil)
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")

	base := time.Now().UTC().Truncate(time.Second)
	pa1 := testutil.CreatePost(t, db, a, "a1", base)
	pb1 := testutil.CreatePost(t, db, b, "b1", base.Add(time.Minute))
	pa2 := testutil.CreatePost(t, db, a, "a2", base.Add(2*time.Minute))

	all, total, err := posts.Explore(ctx, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Equal(t, []uint{pa2.ID, pb1.ID, pa1.ID}, postIDs(all))

	page2, total, err := posts.Explore(ctx, 2, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Equal(t, []uint{pa1.ID}, postIDs(page2))

	mine, total, err := posts.ListByUser(ctx, a.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, []uint{pa2.ID, pa1.ID}, postIDs(mine))
	require.Equal(t, "a", mine[0].Author.Username)
}
