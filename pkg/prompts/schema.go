package prompts

import "google.golang.org/genai"

// IdeasSchema はアイデア列挙レスポンス（文字列の配列）のスキーマなのだ。
var IdeasSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type:        genai.TypeString,
		Description: "A viral social media post idea.",
	},
}

// PostsSchema は単発投稿レスポンス（投稿オブジェクトの配列）のスキーマなのだ。
var PostsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"platform": {
				Type:        genai.TypeString,
				Description: "The social media platform (Twitter, LinkedIn, or Instagram).",
				Enum:        []string{"Twitter", "LinkedIn", "Instagram"},
			},
			"content": {
				Type:        genai.TypeString,
				Description: "The text content for the social media post.",
			},
			"imagePrompt": {
				Type:        genai.TypeString,
				Description: "A detailed, creative prompt for generating an accompanying image. This should be a descriptive sentence.",
			},
		},
		Required: []string{"platform", "content", "imagePrompt"},
	},
}

// CarouselSchema はカルーセル企画レスポンスのスキーマなのだ。
// スライドは5〜7枚を期待するけれど、枚数の強制はプロンプト側に任せるのだ。
var CarouselSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"mainCaption": {
			Type:        genai.TypeString,
			Description: "The main caption for the entire carousel post.",
		},
		"slides": {
			Type:        genai.TypeArray,
			Description: "An array of 5 to 7 slides for the carousel.",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"slideText": {
						Type:        genai.TypeString,
						Description: "The concise, powerful text to be displayed ON the image for this slide.",
					},
					"imagePrompt": {
						Type:        genai.TypeString,
						Description: "A detailed prompt for the background image of this slide, maintaining a consistent style.",
					},
				},
				Required: []string{"slideText", "imagePrompt"},
			},
		},
	},
	Required: []string{"mainCaption", "slides"},
}

// RegenerateSchema は投稿作り直しレスポンス（本文と画像プロンプト）のスキーマなのだ。
var RegenerateSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"content":     {Type: genai.TypeString},
		"imagePrompt": {Type: genai.TypeString},
	},
	Required: []string{"content", "imagePrompt"},
}
