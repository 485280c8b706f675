// Package model はドメインモデルを定義する。
package model

// Workout は推奨ワークアウトのカタログエンティティを表す。
// ユーザーや活動記録から独立した静的データ。
// Difficultyは自由テキストとして扱う（固定語彙は強制しない）。
type Workout struct {
	ID               string
	Name             string
	Description      string
	ActivityType     string
	Difficulty       string
	Duration         int // 分単位
	CaloriesEstimate int
}
