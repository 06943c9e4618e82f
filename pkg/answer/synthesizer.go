package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
	"github.com/newsgraph/newsgraph/pkg/llm"
	"github.com/newsgraph/newsgraph/pkg/retrieval"
	"github.com/newsgraph/newsgraph/pkg/types"
)

// Format selects the output shape of the synthesizer.
type Format string

const (
	// FormatText produces free-form attributed prose.
	FormatText Format = "text"
	// FormatStructured produces the fixed sections/sources document.
	FormatStructured Format = "structured"
)

// noInformationMessage is the deterministic reply when no tool produced
// results. The synthesizer must say so rather than inventing content.
const noInformationMessage = "검색 결과에서 관련 정보를 찾을 수 없습니다."

const resultsSectionTitle = "검색 결과"

// textPrompt is the prose template: answer strictly from context, always
// cite title and url, surface date and category when present.
const textPrompt = `당신은 뉴스 기사 정보를 제공하는 전문 어시스턴트입니다.

질문: %s

검색된 문서 정보:
%s

지침:
1. 제공된 검색 결과(Context)의 내용을 충실히 사용하여 답변하세요.
2. 답변에는 반드시 관련 뉴스 기사의 **제목(title)**과 **URL(url)**을 포함해야 합니다.
3. 여러 기사가 검색된 경우, 각 기사의 출처를 명확히 구분하여 제시하세요.
4. 검색 결과에 없는 내용은 추측하지 마세요.
5. 가능하면 발행일(published_date)과 카테고리(category)도 함께 언급하세요.

답변:`

// structuredPrompt asks for the strict JSON document the HTTP layer
// consumes. Markdown fences are tolerated and stripped during parsing.
const structuredPrompt = `당신은 뉴스 기사 정보를 제공하는 전문 어시스턴트입니다.

질문: %s

검색된 문서 정보:
%s

지침:
1. 제공된 검색 결과의 기사들만 사용하여 답변하세요.
2. 각 기사마다 제목, URL, 발행일, 카테고리, 언론사, 요약(2-3문장)을 반드시 포함하세요.
3. 검색 결과에 없는 내용은 추측하지 마세요.
4. 다음 JSON 형식으로만 답변하세요 (마크다운 코드 블록 없이):

{
  "sections": [
    {
      "title": "검색 결과",
      "content": "",
      "sources": [
        {
          "title": "기사 제목",
          "url": "기사 URL",
          "date": "발행일",
          "category": "카테고리",
          "media": "언론사",
          "summary": "기사 요약 (2-3문장)"
        }
      ]
    }
  ]
}

답변:`

// generatedSection mirrors the JSON the model is asked to produce; sources
// are inlined per section before being flattened into the response shape.
type generatedSection struct {
	Title   string            `json:"title"`
	Content string            `json:"content"`
	Sources []generatedSource `json:"sources"`
}

type generatedSource struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Media    string `json:"media"`
	Summary  string `json:"summary"`
}

type generatedAnswer struct {
	Sections []generatedSection `json:"sections"`
}

// Synthesizer assembles grounded answers from merged retrieval context.
type Synthesizer struct {
	llm    llm.Client
	logger *slog.Logger
}

// NewSynthesizer builds a synthesizer over the generation client.
func NewSynthesizer(llmClient llm.Client, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{llm: llmClient, logger: logger}
}

// Synthesize produces a response in the requested format. An empty context
// yields the explicit no-information response without a generation call.
func (s *Synthesizer) Synthesize(ctx context.Context, merged *retrieval.MergedContext, format Format) (*Response, error) {
	if merged == nil || len(merged.Results) == 0 {
		return &Response{
			Sections: []Section{{Title: resultsSectionTitle, Content: noInformationMessage}},
			Sources:  []Source{},
		}, nil
	}

	contextText, err := renderContext(merged.Results)
	if err != nil {
		return nil, fmt.Errorf("failed to render retrieval context: %w", err)
	}

	switch format {
	case FormatStructured:
		return s.synthesizeStructured(ctx, merged.Question, contextText)
	default:
		return s.synthesizeText(ctx, merged.Question, contextText)
	}
}

func (s *Synthesizer) synthesizeText(ctx context.Context, question, contextText string) (*Response, error) {
	resp, err := s.llm.Chat(ctx, []types.Message{
		llm.NewUserMessage(fmt.Sprintf(textPrompt, question, contextText)),
	})
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}
	return &Response{
		Sections: []Section{{Title: resultsSectionTitle, Content: strings.TrimSpace(resp.Content)}},
		Sources:  []Source{},
	}, nil
}

func (s *Synthesizer) synthesizeStructured(ctx context.Context, question, contextText string) (*Response, error) {
	resp, err := s.llm.Chat(ctx, []types.Message{
		llm.NewUserMessage(fmt.Sprintf(structuredPrompt, question, contextText)),
	})
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	generated, parseErr := parseGeneratedAnswer(resp.Content)
	if parseErr != nil {
		// Fallback: wrap the raw text as a single generic result rather
		// than surfacing a parse failure to the caller.
		s.logger.Warn("structured answer did not parse, using raw-text fallback", "error", parseErr)
		return &Response{
			Sections: []Section{{Title: resultsSectionTitle, Content: strings.TrimSpace(resp.Content)}},
			Sources:  []Source{},
		}, nil
	}
	return assembleResponse(generated), nil
}

// renderContext serializes the retrieval results for the prompt.
func renderContext(results []types.RetrievalResult) (string, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseGeneratedAnswer decodes the model's JSON document, stripping code
// fences and repairing sloppy JSON before giving up.
func parseGeneratedAnswer(raw string) (*generatedAnswer, error) {
	text := stripCodeFence(raw)

	var generated generatedAnswer
	if err := json.Unmarshal([]byte(text), &generated); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return nil, fmt.Errorf("answer is not valid JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &generated); err != nil {
			return nil, fmt.Errorf("answer is not valid JSON: %w", err)
		}
	}
	if len(generated.Sections) == 0 {
		return nil, fmt.Errorf("answer has no sections")
	}
	return &generated, nil
}

// assembleResponse flattens per-section sources into the global list,
// assigning sequential ids and category icons.
func assembleResponse(generated *generatedAnswer) *Response {
	response := &Response{Sources: []Source{}}
	nextID := 1
	for _, section := range generated.Sections {
		out := Section{Title: section.Title, Content: section.Content}
		for _, src := range section.Sources {
			shortName := src.Media
			if shortName == "" {
				shortName = "unknown"
			}
			response.Sources = append(response.Sources, Source{
				ID:        nextID,
				ShortName: shortName,
				Title:     src.Title,
				Category:  src.Category,
				Date:      src.Date,
				URL:       src.URL,
				Summary:   src.Summary,
				Icon:      IconForCategory(src.Category),
			})
			out.SourceIDs = append(out.SourceIDs, nextID)
			nextID++
		}
		response.Sections = append(response.Sections, out)
	}
	return response
}

// stripCodeFence removes a surrounding markdown code block if present.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
