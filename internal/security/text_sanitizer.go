// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はユーザー入力の自由テキスト（活動メモ、
// チームやワークアウトの説明文）をサニタイズし、保存データに
// HTMLタグやスクリプトが混入することを防ぐ。
// bluemondayのStrictPolicyを使用し、全てのタグを除去して
// プレーンテキストのみを通過させる。
package security

import "github.com/microcosm-cc/bluemonday"

// TextSanitizerService は自由テキストのサニタイズ機能のインターフェースを定義する。
// 各リソースの作成・更新時、永続化の前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力テキストから全てのHTMLタグを除去して返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// 自由テキストはHTMLとして表示されることがないため、タグを一切
// 許可しないStrictPolicyを使用する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストから全てのHTMLタグを除去して返す。
func (s *textSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
