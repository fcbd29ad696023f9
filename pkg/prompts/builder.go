// Package prompts は、Geminiに渡すプロンプト文字列とレスポンススキーマを組み立てるのだ。
// プロンプトは英語で固定し、入力値の埋め込みだけを動的に行うのだ。
package prompts

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/shouni/go-social-kit/pkg/domain"
)

// プラットフォームごとの文体・画風ガイドはテンプレートとして埋め込むのだ。
//
//go:embed styleguide.md
var platformStyleGuide string

const noInstructions = "None"

// BuildIdeasPrompt はトピックからバズ企画のアイデアを列挙させるプロンプトを構築します。
func BuildIdeasPrompt(topic string) string {
	var sb strings.Builder
	sb.WriteString("You are a viral marketing expert and social media strategist.\n")
	fmt.Fprintf(&sb, "Given the topic %q, generate a list of 5 to 7 distinct, creative, and highly engaging social media post ideas.\n", topic)
	sb.WriteString("These ideas should have a high potential to go viral and be adaptable for platforms like Twitter, Instagram, and LinkedIn.\n")
	sb.WriteString("Focus on unique angles, trending formats (e.g., threads, carousels, short-form video concepts), and emotional hooks.\n")
	sb.WriteString("Return the ideas as a JSON array of strings. Each string should be a concise, actionable idea.\n")
	return sb.String()
}

// BuildPostsPrompt は単発投稿の一括生成プロンプトを構築するのだ。
// 対象プラットフォームごとに本文と画像プロンプトの両方を要求するのだ。
func BuildPostsPrompt(req domain.GenerationRequest, platforms []domain.Platform) string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, string(p))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate social media posts for the following platforms: %s.\n", strings.Join(names, ", "))
	fmt.Fprintf(&sb, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&sb, "Tone: %s\n", req.Tone)
	fmt.Fprintf(&sb, "Custom Instructions: %s\n\n", orNone(req.CustomInstructions))

	sb.WriteString("For each platform, you must provide two things:\n")
	sb.WriteString("1.  The post's text content, meticulously tailored to the specific platform's style, audience, and character limits.\n")
	sb.WriteString("2.  A detailed, creative, and descriptive image prompt for an AI image generation model (like Midjourney or DALL-E). This prompt MUST strictly follow the specific style guide for that platform to generate a visually compelling and appropriate image.\n\n")
	sb.WriteString(platformStyleGuide)
	return sb.String()
}

// BuildCarouselPrompt は1プラットフォーム分のカルーセル企画プロンプトを構築するのだ。
func BuildCarouselPrompt(req domain.GenerationRequest, platform domain.Platform) string {
	aesthetic := "cinematic, aesthetic, engaging"
	if platform == domain.PlatformLinkedIn {
		aesthetic = "clean, professional, corporate"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a social media strategist specializing in creating viral carousels for %s.\n", platform)
	sb.WriteString("Your task is to deconstruct a topic into a highly engaging, visual, multi-slide carousel post.\n\n")
	fmt.Fprintf(&sb, "Topic: %q\n", req.Topic)
	fmt.Fprintf(&sb, "Tone: %s\n", req.Tone)
	fmt.Fprintf(&sb, "Custom Instructions: %s\n\n", orNone(req.CustomInstructions))
	sb.WriteString("Based on the topic, generate a complete plan for a 5-7 slide carousel. You must provide:\n")
	fmt.Fprintf(&sb, "1. A main caption for the entire post, suitable for %s.\n", platform)
	sb.WriteString("2. An array of slides. Each slide object must contain:\n")
	sb.WriteString("    a. \"slideText\": The concise, high-impact text to be displayed ON the slide's image. This should be short and easy to read. Start with a title slide, then content slides, and end with a summary or call-to-action slide.\n")
	fmt.Fprintf(&sb, "    b. \"imagePrompt\": A detailed, creative prompt for an AI to generate the BACKGROUND image for that specific slide. All image prompts should share a consistent artistic style to make the carousel look cohesive and professional. The style should align with the platform's aesthetic (%s).\n\n", aesthetic)
	sb.WriteString("Return the entire output as a single JSON object that strictly follows the provided schema.\n")
	return sb.String()
}

// BuildRefinePrompt は既存キャプションの部分改善プロンプトを構築します。
// レスポンスはJSONではなく、改善後のキャプション1本だけを期待するのだ。
func BuildRefinePrompt(platform domain.Platform, content, instruction string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Refine the following social media post caption for %s based on the instruction provided.\n", platform)
	fmt.Fprintf(&sb, "Original Post Caption: %q\n", content)
	fmt.Fprintf(&sb, "Refinement Instruction: %q\n\n", instruction)
	sb.WriteString("Return only the refined caption as a single string.\n")
	return sb.String()
}

// BuildRegeneratePrompt は単発投稿の作り直しプロンプトを構築するのだ。
// 前回の本文を提示して「違うもの」を要求するのがポイントなのだ。
func BuildRegeneratePrompt(platform domain.Platform, req domain.GenerationRequest, previousContent string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Regenerate a social media post for %s.\n", platform)
	fmt.Fprintf(&sb, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&sb, "Tone: %s\n", req.Tone)
	fmt.Fprintf(&sb, "Custom Instructions: %s\n\n", orNone(req.CustomInstructions))
	fmt.Fprintf(&sb, "Here is the previous version, please generate a new, different one: %q\n\n", previousContent)
	sb.WriteString("Provide the new post content and a new, different image prompt.\n")
	sb.WriteString("Return the response in JSON format with \"content\" and \"imagePrompt\" fields.\n")
	return sb.String()
}

// CombineImagePrompt は画像プロンプトにユーザー指定の画風を連結するのだ。
// 画風が空のときに末尾へカンマが残らないようにするのだ。
func CombineImagePrompt(imagePrompt, customStyle string) string {
	style := strings.TrimSpace(customStyle)
	if style == "" {
		return strings.TrimSpace(imagePrompt)
	}
	return strings.TrimSpace(imagePrompt) + ", " + style
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return noInstructions
	}
	return s
}
