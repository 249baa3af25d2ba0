package leaderboard

import (
	"context"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// TestTopOrderingProperty 排行榜按分数降序,每个钱包只出现一次,且是该钱包的最好成绩
func TestTopOrderingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc := NewService(newClockedRepo())
		ctx := context.Background()

		n := rapid.IntRange(1, 60).Draw(t, "submissions")
		best := make(map[string]int)
		for i := 0; i < n; i++ {
			wallet := fmt.Sprintf("w%d", rapid.IntRange(0, 9).Draw(t, "wallet"))
			score := rapid.IntRange(0, 500).Draw(t, "score")
			if _, err := svc.Submit(ctx, wallet, score, "free"); err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if cur, ok := best[wallet]; !ok || score > cur {
				best[wallet] = score
			}
		}

		limit := rapid.IntRange(1, 20).Draw(t, "limit")
		top, err := svc.Top(ctx, "free", limit)
		if err != nil {
			t.Fatalf("Top: %v", err)
		}

		want := len(best)
		if want > limit {
			want = limit
		}
		if len(top) != want {
			t.Fatalf("expected %d entries, got %d", want, len(top))
		}

		seen := make(map[string]bool)
		for i, e := range top {
			if seen[e.Wallet] {
				t.Fatalf("wallet %s listed twice", e.Wallet)
			}
			seen[e.Wallet] = true
			if e.Score != best[e.Wallet] {
				t.Fatalf("wallet %s: got %d, best is %d", e.Wallet, e.Score, best[e.Wallet])
			}
			if i > 0 && better(e, top[i-1]) {
				t.Fatalf("entry %d ranks above entry %d", i, i-1)
			}
		}
	})
}
