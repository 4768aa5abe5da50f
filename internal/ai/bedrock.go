// Package ai wraps the hosted multimodal analysis collaborator.
// It identifies creatures in photos, analyzes people into creature
// characters, and generates character art. Every call is fire-once.
package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// ErrAnalysisFailed covers invocation and response-shape failures.
var ErrAnalysisFailed = errors.New("analysis failed")

// Unknown is returned by Identify when no creature can be named.
const Unknown = "unknown"

// Stats are the generated base stats of a creature character.
type Stats struct {
	HP      int `json:"hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
}

// Analysis is the structured result of analyzing a person's photo.
type Analysis struct {
	Characteristics        []string `json:"characteristics"`
	SuggestedPokemon       string   `json:"suggestedPokemon"`
	PokemonizedDescription string   `json:"pokemonizedDescription"`
	PowerType              string   `json:"powerType"`
	Abilities              []string `json:"abilities"`
	Stats                  Stats    `json:"stats"`
	ImagePrompt            string   `json:"imagePrompt"`
}

// Config holds settings for the analysis client.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	AnalysisModelID string
	ImageGenModelID string
	MaxTokens       int
}

// Client invokes hosted models through the Bedrock runtime.
type Client struct {
	runtime         *bedrockruntime.Client
	analysisModelID string
	imageGenModelID string
	maxTokens       int
}

// New creates an analysis client. Static credentials are used when
// provided; otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	return &Client{
		runtime:         bedrockruntime.NewFromConfig(awsCfg),
		analysisModelID: cfg.AnalysisModelID,
		imageGenModelID: cfg.ImageGenModelID,
		maxTokens:       maxTokens,
	}, nil
}

const identifyPrompt = `You are a Pokemon expert. Identify the Pokemon in this image.

Respond with ONLY the Pokemon name in lowercase, no additional text.
If you cannot identify the Pokemon, respond with "unknown".`

const pokemonizePrompt = `You are a Pokemon character designer. Study this photo of a person and design a Pokemon character inspired by them.

Respond with a JSON object of this exact shape:
{
  "characteristics": ["observed", "traits"],
  "suggestedPokemon": "a creative Pokemon name",
  "pokemonizedDescription": "how this person would look as a Pokemon",
  "powerType": "Primary/Secondary type combination",
  "abilities": ["ability1", "ability2", "ability3"],
  "stats": {"hp": 85, "attack": 75, "defense": 70},
  "imagePrompt": "a detailed visual prompt for rendering the character in official Pokemon art style"
}

Base the types, abilities, and stats on the person's appearance and perceived
personality; keep stat values between 40 and 120. Be creative and positive.`

// anthropic messages wire format.
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Identify names the creature in a JPEG image, or returns Unknown.
func (c *Client) Identify(ctx context.Context, imageJPEG []byte) (string, error) {
	text, err := c.invokeMultimodal(ctx, identifyPrompt, imageJPEG, 50)
	if err != nil {
		return "", err
	}

	name := strings.ToLower(strings.TrimSpace(text))
	if name == "" {
		return Unknown, nil
	}
	return name, nil
}

// Pokemonize analyzes a person's JPEG photo into a creature character.
// Model output that is not valid JSON degrades to a fixed default
// analysis rather than failing the request.
func (c *Client) Pokemonize(ctx context.Context, imageJPEG []byte) (*Analysis, error) {
	text, err := c.invokeMultimodal(ctx, pokemonizePrompt, imageJPEG, c.maxTokens)
	if err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &analysis); err != nil {
		return fallbackAnalysis(text), nil
	}

	return &analysis, nil
}

// fallbackAnalysis wraps free-form model text in the expected structure.
func fallbackAnalysis(text string) *Analysis {
	return &Analysis{
		Characteristics:        []string{"Unique features detected"},
		SuggestedPokemon:       "Custom Pokemon",
		PokemonizedDescription: strings.TrimSpace(text),
		PowerType:              "Normal/Psychic",
		Abilities:              []string{"Adaptability", "Charm", "Quick Thinking"},
		Stats:                  Stats{HP: 75, Attack: 65, Defense: 70},
		ImagePrompt:            "A cute Pokemon character with unique features, in official Pokemon art style",
	}
}

func (c *Client) invokeMultimodal(ctx context.Context, prompt string, imageJPEG []byte, maxTokens int) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anthropicContent{
				{Type: "text", Text: prompt},
				{Type: "image", Source: &anthropicSource{
					Type:      "base64",
					MediaType: "image/jpeg",
					Data:      base64.StdEncoding.EncodeToString(imageJPEG),
				}},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrAnalysisFailed, err)
	}

	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.analysisModelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrAnalysisFailed, err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrAnalysisFailed)
	}

	return resp.Content[0].Text, nil
}

// stable diffusion wire format.
type sdRequest struct {
	TextPrompts []sdPrompt `json:"text_prompts"`
	CfgScale    int        `json:"cfg_scale"`
	Steps       int        `json:"steps"`
	Seed        int        `json:"seed"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	StylePreset string     `json:"style_preset"`
}

type sdPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type sdResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

// GenerateImage renders character art for the given prompt and returns
// PNG bytes.
func (c *Client) GenerateImage(ctx context.Context, imagePrompt string) ([]byte, error) {
	enhanced := imagePrompt + ", Pokemon official artwork style, anime style, clean lines, vibrant colors, cute and appealing design, high quality, detailed, colorful, fantasy creature"

	body, err := json.Marshal(sdRequest{
		TextPrompts: []sdPrompt{
			{Text: enhanced, Weight: 1.0},
			{Text: "blurry, low quality, distorted, ugly, deformed, realistic, photographic, dark, scary", Weight: -1.0},
		},
		CfgScale:    10,
		Steps:       50,
		Seed:        rand.Intn(1000000),
		Width:       512,
		Height:      512,
		StylePreset: "anime",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrAnalysisFailed, err)
	}

	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.imageGenModelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	var resp sdResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrAnalysisFailed, err)
	}
	if len(resp.Artifacts) == 0 {
		return nil, fmt.Errorf("%w: no artifacts returned", ErrAnalysisFailed)
	}

	png, err := base64.StdEncoding.DecodeString(resp.Artifacts[0].Base64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode artifact: %v", ErrAnalysisFailed, err)
	}

	return png, nil
}
