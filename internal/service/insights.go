package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/immxrtalbeast/meetflow/internal/platform"
	"github.com/immxrtalbeast/meetflow/lib/logger/sl"
)

// Asset classification and payload normalization for transcript/summary
// insights. The matching rules are string heuristics over whatever names and
// types the platform happens to emit; they live here, behind classifyAssets,
// so they can change without touching download or parsing logic.

const maxInsightAssetBytes = 20 << 20

// extension preference for transcript-like assets
var transcriptExtensionRank = map[string]int{
	".txt":  4,
	".json": 3,
	".srt":  2,
	".vtt":  1,
}

// classifyAssets picks the best transcript-like and summary-like assets from
// the platform's list. Summary markers are checked first so an asset named
// "transcript-summary.json" lands on the summary side.
func classifyAssets(assets []platform.Asset) (transcript, summary *platform.Asset) {
	transcriptRank := -1
	summaryRank := -1

	for i := range assets {
		asset := &assets[i]
		name := strings.ToLower(asset.Type + " " + asset.Path)
		rank := extensionRank(asset.Path)

		switch {
		case strings.Contains(name, "summary") || strings.Contains(name, "insight") || hasToken(name, "ai"):
			if rank > summaryRank {
				summary = asset
				summaryRank = rank
			}
		case strings.Contains(name, "transcript"):
			if rank > transcriptRank {
				transcript = asset
				transcriptRank = rank
			}
		}
	}
	return transcript, summary
}

// hasToken matches whole words only: "ai" should not catch "main.mp4".
func hasToken(name, token string) bool {
	for _, field := range strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.' || r == '/'
	}) {
		if field == token {
			return true
		}
	}
	return false
}

func extensionRank(path string) int {
	lowered := strings.ToLower(path)
	for ext, rank := range transcriptExtensionRank {
		if strings.HasSuffix(lowered, ext) {
			return rank
		}
	}
	return 0
}

func (s *RecordingService) downloadAsset(ctx context.Context, log *slog.Logger, asset *platform.Asset) []byte {
	url := asset.URL
	if url == "" && asset.ID != "" {
		resolved, err := s.video.AssetDownloadURL(ctx, asset.ID)
		if err != nil {
			log.Warn("asset url fetch failed", sl.Err(err))
			return nil
		}
		url = resolved
	}
	if url == "" {
		return nil
	}

	payload, err := s.video.FetchAsset(ctx, url)
	if err != nil {
		log.Warn("asset download failed", slog.String("url", url), sl.Err(err))
		return nil
	}
	defer payload.Body.Close()

	data, err := io.ReadAll(io.LimitReader(payload.Body, maxInsightAssetBytes))
	if err != nil {
		log.Warn("asset read failed", sl.Err(err))
		return nil
	}
	return data
}

// transcriptDocument covers the JSON shapes the platforms emit for
// transcripts. Only the fields we can flatten are declared.
type transcriptDocument struct {
	Text       string              `json:"text"`
	Transcript string              `json:"transcript"`
	Summary    json.RawMessage     `json:"summary"`
	AISummary  json.RawMessage     `json:"ai_summary"`
	Segments   []transcriptSegment `json:"segments"`
}

type transcriptSegment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type summaryBlock struct {
	Paragraph string   `json:"paragraph"`
	Title     string   `json:"title"`
	Bullets   []string `json:"bullets"`
}

// normalizeTranscript flattens whatever payload shape arrived into display
// text. Unparseable input is returned as-is when it looks like plain text,
// otherwise empty.
func normalizeTranscript(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	trimmed := strings.TrimSpace(string(data))
	if !looksLikeJSON(trimmed) {
		return trimmed
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var doc transcriptDocument
	if err := json.Unmarshal(data, &doc); err == nil {
		if text := flattenTranscriptDoc(&doc); text != "" {
			return text
		}
	}

	var blocks []summaryBlock
	if err := json.Unmarshal(data, &blocks); err == nil {
		if text := flattenBlocks(blocks); text != "" {
			return text
		}
	}

	var segments []transcriptSegment
	if err := json.Unmarshal(data, &segments); err == nil {
		if text := flattenSegments(segments); text != "" {
			return text
		}
	}

	return ""
}

// normalizeSummary handles the same shapes as normalizeTranscript plus the
// summary-specific block array.
func normalizeSummary(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	trimmed := strings.TrimSpace(string(data))
	if !looksLikeJSON(trimmed) {
		return trimmed
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var blocks []summaryBlock
	if err := json.Unmarshal(data, &blocks); err == nil {
		if text := flattenBlocks(blocks); text != "" {
			return text
		}
	}

	var doc struct {
		Text    string          `json:"text"`
		Summary json.RawMessage `json:"summary"`
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		if doc.Text != "" {
			return strings.TrimSpace(doc.Text)
		}
		if text := normalizeRawSummary(doc.Summary); text != "" {
			return text
		}
	}

	return ""
}

// summaryFromTranscript digs summary-ish fields out of a transcript JSON
// document when no dedicated summary asset exists.
func summaryFromTranscript(data []byte) string {
	var doc transcriptDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ""
	}
	if text := normalizeRawSummary(doc.Summary); text != "" {
		return text
	}
	return normalizeRawSummary(doc.AISummary)
}

func normalizeRawSummary(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var blocks []summaryBlock
	if err := json.Unmarshal(raw, &blocks); err == nil {
		return flattenBlocks(blocks)
	}

	return ""
}

func flattenTranscriptDoc(doc *transcriptDocument) string {
	if doc.Text != "" {
		return strings.TrimSpace(doc.Text)
	}
	if doc.Transcript != "" {
		return strings.TrimSpace(doc.Transcript)
	}
	return flattenSegments(doc.Segments)
}

func flattenSegments(segments []transcriptSegment) string {
	var lines []string
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if seg.Speaker != "" {
			lines = append(lines, seg.Speaker+": "+text)
		} else {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

func flattenBlocks(blocks []summaryBlock) string {
	var parts []string
	for _, block := range blocks {
		if title := strings.TrimSpace(block.Title); title != "" {
			parts = append(parts, title)
		}
		if paragraph := strings.TrimSpace(block.Paragraph); paragraph != "" {
			parts = append(parts, paragraph)
		}
		for _, bullet := range block.Bullets {
			if bullet = strings.TrimSpace(bullet); bullet != "" {
				parts = append(parts, "- "+bullet)
			}
		}
	}
	return strings.Join(parts, "\n")
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") || strings.HasPrefix(s, `"`)
}
