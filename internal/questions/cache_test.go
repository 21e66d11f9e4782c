package questions

import (
	"context"
	"os"
	"testing"
	"time"

	"quiz_duel/internal/domain"

	"github.com/redis/go-redis/v9"
)

type countingPool struct {
	calls int
	inner Pool
}

func (c *countingPool) FetchQuestions(ctx context.Context, subjectID string) ([]domain.Question, error) {
	c.calls++
	return c.inner.FetchQuestions(ctx, subjectID)
}

// нужен живой Redis: REDIS_TEST_URL=redis://localhost:6379/15
func TestCachedPool(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL не задан")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	ctx := context.Background()
	inner := &countingPool{inner: NewStaticPool([]domain.Question{
		{ID: "1", SubjectID: "cache-test", Text: "a", CorrectAnswer: "x"},
		{ID: "2", SubjectID: "cache-test", Text: "b", CorrectAnswer: "y"},
	})}
	p := NewCachedPool(inner, rdb, time.Minute)
	if err := p.Invalidate(ctx, "cache-test"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	for i := 0; i < 3; i++ {
		qs, err := p.FetchQuestions(ctx, "cache-test")
		if err != nil {
			t.Fatalf("FetchQuestions: %v", err)
		}
		if len(qs) != 2 {
			t.Fatalf("ожидалось 2 вопроса, получено %d", len(qs))
		}
	}
	if inner.calls != 1 {
		t.Fatalf("исходный пул должен вызываться один раз, вызван %d", inner.calls)
	}
}
