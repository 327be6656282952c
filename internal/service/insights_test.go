package service

import (
	"testing"

	"github.com/immxrtalbeast/meetflow/internal/platform"
	"github.com/stretchr/testify/require"
)

func TestClassifyAssets(t *testing.T) {
	tests := []struct {
		name           string
		assets         []platform.Asset
		wantTranscript string
		wantSummary    string
	}{
		{
			name: "distinct transcript and summary",
			assets: []platform.Asset{
				{ID: "v", Type: "video", Path: "main.mp4"},
				{ID: "t", Type: "transcript", Path: "transcript.txt"},
				{ID: "s", Type: "summary", Path: "summary.json"},
			},
			wantTranscript: "t",
			wantSummary:    "s",
		},
		{
			name: "summary marker wins over transcript marker",
			assets: []platform.Asset{
				{ID: "x", Type: "file", Path: "transcript-summary.json"},
			},
			wantSummary: "x",
		},
		{
			name: "ai token marks a summary",
			assets: []platform.Asset{
				{ID: "a", Type: "file", Path: "ai-notes.txt"},
			},
			wantSummary: "a",
		},
		{
			name: "ai substring inside a word does not match",
			assets: []platform.Asset{
				{ID: "m", Type: "video", Path: "main.mp4"},
			},
		},
		{
			name: "txt transcript preferred over vtt",
			assets: []platform.Asset{
				{ID: "vtt", Type: "transcript", Path: "transcript.vtt"},
				{ID: "txt", Type: "transcript", Path: "transcript.txt"},
			},
			wantTranscript: "txt",
		},
		{
			name:   "no assets",
			assets: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcript, summary := classifyAssets(tt.assets)
			if tt.wantTranscript == "" {
				require.Nil(t, transcript)
			} else {
				require.NotNil(t, transcript)
				require.Equal(t, tt.wantTranscript, transcript.ID)
			}
			if tt.wantSummary == "" {
				require.Nil(t, summary)
			} else {
				require.NotNil(t, summary)
				require.Equal(t, tt.wantSummary, summary.ID)
			}
		})
	}
}

func TestNormalizeTranscript(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "plain text passes through",
			data: "  hello world  ",
			want: "hello world",
		},
		{
			name: "json string",
			data: `"quoted transcript"`,
			want: "quoted transcript",
		},
		{
			name: "document with text field",
			data: `{"text":"full text"}`,
			want: "full text",
		},
		{
			name: "document with transcript field",
			data: `{"transcript":"other text"}`,
			want: "other text",
		},
		{
			name: "segments with speakers",
			data: `{"segments":[{"speaker":"Alice","text":"hi"},{"speaker":"","text":"anon"}]}`,
			want: "Alice: hi\nanon",
		},
		{
			name: "bare segment array",
			data: `[{"speaker":"Bob","text":"hello"}]`,
			want: "Bob: hello",
		},
		{
			name: "unparseable json degrades to empty",
			data: `{"unknown": 42}`,
			want: "",
		},
		{
			name: "empty input",
			data: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, normalizeTranscript([]byte(tt.data)))
		})
	}
}

func TestNormalizeSummary(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "plain text",
			data: "short summary",
			want: "short summary",
		},
		{
			name: "block array",
			data: `[{"title":"Decisions","paragraph":"We agreed.","bullets":["ship it","test it"]}]`,
			want: "Decisions\nWe agreed.\n- ship it\n- test it",
		},
		{
			name: "document with nested summary string",
			data: `{"summary":"nested"}`,
			want: "nested",
		},
		{
			name: "document with text field",
			data: `{"text":"top level"}`,
			want: "top level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, normalizeSummary([]byte(tt.data)))
		})
	}
}

func TestSummaryFromTranscript(t *testing.T) {
	require.Equal(t, "embedded", summaryFromTranscript([]byte(`{"text":"t","summary":"embedded"}`)))
	require.Equal(t, "from ai", summaryFromTranscript([]byte(`{"ai_summary":"from ai"}`)))
	require.Equal(t, "", summaryFromTranscript([]byte(`not json`)))
	require.Equal(t, "Topics\n- one", summaryFromTranscript([]byte(`{"summary":[{"title":"Topics","bullets":["one"]}]}`)))
}

func TestIsPreviewLink(t *testing.T) {
	require.True(t, isPreviewLink("https://app.example.com/dashboard/rec/1"))
	require.True(t, isPreviewLink("https://app.example.com/Meeting/abc"))
	require.True(t, isPreviewLink("https://app.example.com/watch?v=1"))
	require.False(t, isPreviewLink("https://cdn.example.com/files/rec.mp4"))
}
