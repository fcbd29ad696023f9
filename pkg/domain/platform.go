package domain

import (
	"fmt"
	"strings"
)

// Platform は投稿先のSNSプラットフォームを表す識別子なのだ。
type Platform string

const (
	PlatformTwitter   Platform = "Twitter"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformInstagram Platform = "Instagram"
)

// アスペクト比の定義。Twitterは横長、それ以外は縦長のカード型なのだ。
const (
	AspectLandscape = "16:9"
	AspectPortrait  = "3:4"
)

// AllPlatforms はサポート対象の全プラットフォームのリストです。
var AllPlatforms = []Platform{PlatformTwitter, PlatformLinkedIn, PlatformInstagram}

// ParsePlatform は文字列を Platform に変換するのだ。大文字小文字は区別しないのだ。
func ParsePlatform(s string) (Platform, error) {
	for _, p := range AllPlatforms {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("未対応のプラットフォームです: %q", s)
}

// Valid は既知のプラットフォームかどうかを返します。
func (p Platform) Valid() bool {
	for _, known := range AllPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// AspectRatio は画像生成に用いるアスペクト比を返すのだ。
func (p Platform) AspectRatio() string {
	if p == PlatformTwitter {
		return AspectLandscape
	}
	return AspectPortrait
}

// SupportsCarousel はカルーセル形式の投稿に対応しているかを返します。
// Twitterはスレッド文化なので、ここでは単発投稿のみの扱いなのだ。
func (p Platform) SupportsCarousel() bool {
	return p == PlatformLinkedIn || p == PlatformInstagram
}
