// Package leaderboard はリーダーボードのランク計算と
// スナップショット管理のドメインロジックを提供する。
package leaderboard

import (
	"sort"
	"time"

	"github.com/hitoshi/octofit/internal/model"
)

// Compute はユーザー集合と活動記録の多重集合からランク付きの
// リーダーボードエントリ列を計算する純粋関数。
// I/Oや共有状態を持たず、同一入力に対して常に同一の(rank, user)対を返す。
//
// 集計規則:
//   - ユーザーごとに活動数・総消費カロリー・総活動時間を集計する。
//     活動が1件もないユーザーも全て0のエントリを持つ。
//   - 所有者がユーザー集合に存在しない活動も集計され、
//     チーム未解決のエントリとして出力される（拒否しない）。
//   - エントリのTeamIDは計算時点のユーザーの所属チームの
//     スナップショットであり、以後再解決されない。
//
// 順位付け規則:
//   - 総消費カロリーの降順でソートする。同値の場合はユーザーIDの
//     昇順を第2キーとして決定的に順序付ける。
//   - ランクはソート後の1始まりの位置をそのまま割り当てる。
//     同値のユーザーも隣接する異なるランクを受け取る
//     （共有ランクや番号の飛びは発生しない）。
//
// 返り値のエントリのIDは未設定（空文字列）であり、永続化する側が
// 採番する。UpdatedAtにはnowがそのまま設定される。
func Compute(users []*model.User, activities []*model.Activity, now time.Time) []*model.LeaderboardEntry {
	type aggregate struct {
		count    int
		calories int
		duration int
	}

	aggregates := make(map[string]*aggregate, len(users))
	teamByUser := make(map[string]string, len(users))

	// 入力順を保ったままエントリ対象のユーザーIDを集める
	order := make([]string, 0, len(users))
	for _, u := range users {
		if _, ok := aggregates[u.ID]; ok {
			continue
		}
		aggregates[u.ID] = &aggregate{}
		teamByUser[u.ID] = u.TeamID
		order = append(order, u.ID)
	}

	for _, a := range activities {
		agg, ok := aggregates[a.UserID]
		if !ok {
			// 所有者不明の活動も集計する（チームは未解決のまま）
			agg = &aggregate{}
			aggregates[a.UserID] = agg
			order = append(order, a.UserID)
		}
		agg.count++
		agg.calories += a.CaloriesBurned
		agg.duration += a.Duration
	}

	entries := make([]*model.LeaderboardEntry, 0, len(order))
	for _, userID := range order {
		agg := aggregates[userID]
		entries = append(entries, &model.LeaderboardEntry{
			UserID:          userID,
			TeamID:          teamByUser[userID],
			TotalActivities: agg.count,
			TotalCalories:   agg.calories,
			TotalDuration:   agg.duration,
			UpdatedAt:       now,
		})
	}

	// 第1キー: 総消費カロリー降順、第2キー: ユーザーID昇順
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalCalories != entries[j].TotalCalories {
			return entries[i].TotalCalories > entries[j].TotalCalories
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i, entry := range entries {
		entry.Rank = i + 1
	}

	return entries
}

// TotalPoints はエントリの合計ポイントを導出する。
// total_activities * 10 + total_calories / 10（整数除算）。
// 読み取り時に毎回再計算され、永続化されることはない。
func TotalPoints(entry *model.LeaderboardEntry) int {
	return entry.TotalActivities*10 + entry.TotalCalories/10
}
