// Package gateway は、プロンプトと参照画像を受け取って外部の画像モデルを
// 固定優先順位で試行するサーバー側の生成境界なのだ。プロバイダーの認証情報は
// この境界の外へ決して出してはいけない。
package gateway

import (
	"fmt"
	"strings"
)

// ErrorKind は上流の雑多な失敗を束ねる閉じた分類なのだ。
type ErrorKind string

const (
	KindNotConfigured      ErrorKind = "not_configured"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindRateLimited        ErrorKind = "rate_limited"
	KindContentBlocked     ErrorKind = "content_blocked"
	KindQuotaExhausted     ErrorKind = "quota_exhausted"
	KindNoImages           ErrorKind = "no_images"
	KindProviderError      ErrorKind = "provider_error"
)

// Error は分類済みのゲートウェイ失敗なのだ。
// Message はそのままレスポンスの error フィールドに載る。
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// NewError は分類済みの失敗を組み立てます。cause は nil でもよいのだ。
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// classifyProviderError はプロバイダーが返した生のエラーを分類するのだ。
// 照合順序は固定で、最初に一致した分類が勝つ。判定はステータスコード文字列と
// 典型的なエラーメッセージの部分一致に依存する（各SDKがセンチネルを公開して
// いないため、ここが実用上いちばん安定した共通項なのだ）。
func classifyProviderError(provider string, err error) *Error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "api key") || strings.Contains(msg, "invalid authentication"):
		return NewError(KindInvalidCredentials, fmt.Sprintf("%s の認証情報が正しくないのだ", provider), err)

	case strings.Contains(msg, "429") || strings.Contains(msg, "rate") ||
		strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "resource exhausted"):
		return NewError(KindRateLimited, fmt.Sprintf("%s が混み合っているのだ", provider), err)

	case strings.Contains(msg, "safety") || strings.Contains(msg, "blocked") ||
		strings.Contains(msg, "policy") || strings.Contains(msg, "prohibited"):
		return NewError(KindContentBlocked, fmt.Sprintf("%s が内容をブロックしたのだ", provider), err)

	case strings.Contains(msg, "quota") || strings.Contains(msg, "billing") ||
		strings.Contains(msg, "insufficient"):
		return NewError(KindQuotaExhausted, fmt.Sprintf("%s の利用枠を使い切ったのだ", provider), err)
	}

	return NewError(KindProviderError, fmt.Sprintf("%s でエラーが発生したのだ", provider), err)
}
