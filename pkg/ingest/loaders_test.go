package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsgraph/newsgraph/pkg/types"
)

func TestLoadRecordsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")
	data := "article_id,source,title,content,url,published_date,category\n" +
		"ART_009_0005421367,매일경제,반도체 수출 호조,\"본문, 쉼표 포함\",https://n/1,2025-11-03 09:12,경제\n" +
		",연합뉴스,국회 본회의,본문,https://n/2,2025-11-03 10:00,정치\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ART_009_0005421367", records[0].ArticleID)
	assert.Equal(t, "본문, 쉼표 포함", records[0].Content)
	assert.Equal(t, "", records[1].ArticleID)
	assert.Equal(t, "정치", records[1].Category)
}

func TestLoadRecordsCSVColumnOrderIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")
	data := "title,article_id,category\n제목,ART_1_1,세계\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ART_1_1", records[0].ArticleID)
	assert.Equal(t, "세계", records[0].Category)
	assert.Empty(t, records[0].URL)
}

func TestLoadRecordsJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")
	data := `{"article_id":"ART_1_1","title":"제목","content":"본문","category":"IT/과학"}` + "\n" +
		"\n" + // blank lines are ignored
		`{"article_id":"ART_1_2","title":"제목 2","content":"본문 2"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "IT/과학", records[0].Category)
	assert.Equal(t, "ART_1_2", records[1].ArticleID)
}

func TestLoadRecordsJSONLRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0o644))

	_, err := LoadRecords(path)
	assert.Error(t, err)
}

func TestLoadRecordsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.parquet")
	want := []types.ArticleRecord{
		{ArticleID: "ART_1_1", Source: "매일경제", Title: "제목", Content: "본문", Category: "경제"},
		{ArticleID: "ART_1_2", Title: "제목 2", Content: "본문 2", Category: "사회"},
	}
	require.NoError(t, parquet.WriteFile(path, want))

	got, err := LoadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadRecordsUnsupportedExtension(t *testing.T) {
	_, err := LoadRecords("articles.xml")
	assert.ErrorContains(t, err, "unsupported input format")
}
