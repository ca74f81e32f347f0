package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"trip-assistant-be/pkg/travel"
)

const (
	DefaultDeepLBaseURL     = "https://api.deepl.com"
	DefaultDeepLFreeBaseURL = "https://api-free.deepl.com"
	defaultTargetLanguage   = "EN"
)

var languageCodes = map[string]string{
	"english":    "EN",
	"spanish":    "ES",
	"french":     "FR",
	"german":     "DE",
	"italian":    "IT",
	"japanese":   "JA",
	"chinese":    "ZH",
	"portuguese": "PT-PT",
	"dutch":      "NL",
	"polish":     "PL",
	"russian":    "RU",
	"korean":     "KO",
	"greek":      "EL",
	"turkish":    "TR",
}

// LanguageCode maps a language name or code onto a DeepL target code
func LanguageCode(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	if l == "" {
		return defaultTargetLanguage
	}
	if code, ok := languageCodes[l]; ok {
		return code
	}
	return strings.ToUpper(l)
}

var (
	translateIntoRe = regexp.MustCompile(`(?i)\btranslate\s+(.+?)\s+(?:in)?to\s+([a-z]+)\s*[.!?]*$`)
	sayInRe         = regexp.MustCompile(`(?i)\bhow\s+(?:do\s+(?:i|you)|to)\s+say\s+(.+?)\s+in\s+([a-z]+)\s*[.!?]*$`)
)

// ParseTranslation reads "text: ..., target_language: ..." input, falling
// back to "translate X to French" and "how do I say X in French".
func ParseTranslation(query string) (text, target string) {
	for _, part := range strings.Split(query, ",") {
		part = strings.TrimSpace(part)
		lower := strings.ToLower(part)
		switch {
		case strings.HasPrefix(lower, "text:"):
			text = strings.TrimSpace(part[len("text:"):])
		case strings.HasPrefix(lower, "target_language:"):
			target = strings.TrimSpace(part[len("target_language:"):])
		}
	}
	if text == "" {
		for _, re := range []*regexp.Regexp{translateIntoRe, sayInRe} {
			if m := re.FindStringSubmatch(strings.TrimSpace(query)); m != nil {
				text, target = m[1], m[2]
				break
			}
		}
	}
	text = strings.Trim(strings.TrimSpace(text), `"'`)
	return text, LanguageCode(target)
}

// DeepLTranslate is the translation backend
type DeepLTranslate struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

var _ Adapter = &DeepLTranslate{}

func NewDeepLTranslate(apiKey, baseURL string) *DeepLTranslate {
	if baseURL == "" {
		baseURL = DefaultDeepLBaseURL
		if strings.HasSuffix(apiKey, ":fx") {
			baseURL = DefaultDeepLFreeBaseURL
		}
	}
	return &DeepLTranslate{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

func (d *DeepLTranslate) ID() string                    { return ToolTranslate }
func (d *DeepLTranslate) Capability() travel.Capability { return travel.CapabilityTranslation }
func (d *DeepLTranslate) IsAvailable() bool             { return d.apiKey != "" }

type translateRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

func (d *DeepLTranslate) Execute(ctx context.Context, params Params) Result {
	start := time.Now()
	text, target := params.Text, LanguageCode(params.TargetLanguage)
	if text == "" {
		text, target = ParseTranslation(params.Query)
	}
	if text == "" {
		return Failed(ToolTranslate, StatusValidationError, "no text provided for translation", time.Since(start))
	}

	body, _ := json.Marshal(translateRequest{Text: []string{text}, TargetLang: target})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v2/translate", bytes.NewReader(body))
	if err != nil {
		return FromError(ToolTranslate, err, time.Since(start))
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return FromError(ToolTranslate, fmt.Errorf("deepl request failed: %w", err), time.Since(start))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return FromError(ToolTranslate, err, time.Since(start))
	}
	if resp.StatusCode != http.StatusOK {
		return Failed(ToolTranslate, StatusProviderError, fmt.Sprintf("deepl status %d: %s", resp.StatusCode, truncate(string(raw), 200)), time.Since(start))
	}

	var out translateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return FromError(ToolTranslate, fmt.Errorf("unmarshal response: %w", err), time.Since(start))
	}
	if len(out.Translations) == 0 {
		return Failed(ToolTranslate, StatusNoData, "no translation returned", time.Since(start))
	}
	return OK(ToolTranslate, out.Translations[0].Text, time.Since(start))
}
