// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashは外部に公開してはならない（APIレスポンスには含めない）。
// TeamIDはチームへの弱参照で、未所属の場合は空文字列。
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	TeamID       string
	CreatedAt    time.Time
}

// Team はユーザーが所属するチームを表す。
// チーム削除はメンバーへカスケードせず、User.TeamIDは宙吊りの
// 弱参照として残ることを許容する。
type Team struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
