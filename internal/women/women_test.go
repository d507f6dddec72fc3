// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package women

import (
	"io"
	"strings"
	"testing"

	"github.com/pdiddy/insert-engine/internal/document"
	"github.com/pdiddy/insert-engine/pkg/types"
)

const ns = `xmlns="http://info.pmda.go.jp/namespace/prescription_drugs/package_insert/1.0"`

func parse(t *testing.T, src string) *document.Node {
	t.Helper()
	n, err := document.ParseString(src)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return n
}

// --- NormalizeText ---

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"crlf to lf", "a\r\nb\rc", "a\nb\nc"},
		{"space runs collapsed", "妊婦  又は　　妊娠", "妊婦 又は 妊娠"},
		{"excess blank lines", "a\n\n\n\nb", "a\n\nb"},
		{"trimmed", "  text  ", "text"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// --- ExtractSection ---

func TestExtractSectionLanguageBuckets(t *testing.T) {
	doc := parse(t, `<PackageInsert `+ns+`>
		<UseInPregnant id="sec9-4">
			<Lang xml:lang="en">English text.</Lang>
			<Lang xml:lang="ja">妊婦には投与しないこと。</Lang>
		</UseInPregnant>
	</PackageInsert>`)

	got := ExtractSection(doc, PregnantTags)
	if got.SourceID != "sec9-4" {
		t.Errorf("SourceID = %q, want sec9-4", got.SourceID)
	}
	// Japanese first, other languages after.
	want := "妊婦には投与しないこと。\n\nEnglish text."
	if got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
}

func TestExtractSectionDedup(t *testing.T) {
	doc := parse(t, `<PackageInsert `+ns+`>
		<UseInPregnant>
			<Lang xml:lang="ja">同一文。</Lang>
			<Lang xml:lang="ja">同一文。</Lang>
			<Lang xml:lang="ja">別の文。</Lang>
		</UseInPregnant>
	</PackageInsert>`)

	got := ExtractSection(doc, PregnantTags)
	if got.Text != "同一文。\n\n別の文。" {
		t.Errorf("Text = %q, repeated variants should collapse", got.Text)
	}
}

func TestExtractSectionMultipleHits(t *testing.T) {
	// Older revisions split the section; both elements contribute, and the
	// source id comes from the first.
	doc := parse(t, `<PackageInsert `+ns+`>
		<Pregnant id="first">
			<Lang xml:lang="ja">前半。</Lang>
		</Pregnant>
		<UseInPregnantWomen id="second">
			<Lang xml:lang="ja">後半。</Lang>
		</UseInPregnantWomen>
	</PackageInsert>`)

	got := ExtractSection(doc, PregnantTags)
	if got.SourceID != "first" {
		t.Errorf("SourceID = %q, want first", got.SourceID)
	}
	if got.Text != "前半。\n\n後半。" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestExtractSectionRawFallback(t *testing.T) {
	doc := parse(t, `<PackageInsert `+ns+`>
		<UseInNursing>授乳を避けさせること。</UseInNursing>
	</PackageInsert>`)

	got := ExtractSection(doc, NursingTags)
	if got.Text != "授乳を避けさせること。" {
		t.Errorf("Text = %q, want the raw element text", got.Text)
	}
}

func TestExtractSectionNoMatch(t *testing.T) {
	doc := parse(t, `<PackageInsert `+ns+`><Composition/></PackageInsert>`)
	got := ExtractSection(doc, PregnantTags)
	if got.Text != "" || got.SourceID != "" {
		t.Errorf("ExtractSection on unrelated doc = %+v", got)
	}

	if got := ExtractSection(nil, PregnantTags); got.Text != "" {
		t.Errorf("ExtractSection(nil) = %+v", got)
	}
}

// --- Build ---

type memSource struct {
	docs [][4]string // pkg, yj, brand, docXML
}

func (m *memSource) EachDocument(fn func(pkg, yj, brand, docXML string) error) error {
	for _, d := range m.docs {
		if err := fn(d[0], d[1], d[2], d[3]); err != nil {
			return err
		}
	}
	return nil
}

type memSink struct {
	recreated bool
	rows      []types.WomenRow
}

func (m *memSink) RecreateWomen() error { m.recreated = true; return nil }

func (m *memSink) UpsertWomenRows(rows []types.WomenRow) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func TestBuild(t *testing.T) {
	goodDoc := `<PackageInsert ` + ns + `>
		<UseInPregnant id="p1"><Lang xml:lang="ja">投与しないこと。</Lang></UseInPregnant>
		<UseInNursing id="n1"><Lang xml:lang="ja">授乳を中止させること。</Lang></UseInNursing>
	</PackageInsert>`

	src := &memSource{docs: [][4]string{
		{"100", "YJ1", "薬A", goodDoc},
		{"200", "YJ2", "薬B", "<broken"},
		{"300", "YJ3", "薬C", `<PackageInsert ` + ns + `/>`},
	}}
	sink := &memSink{}

	summary, err := Build(src, sink, types.RebuildConfig{BatchSize: 2}, io.Discard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !sink.recreated {
		t.Error("women table was not recreated")
	}
	if summary.Scanned != 3 || summary.Upserted != 3 || summary.ParseErrors != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if len(sink.rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(sink.rows))
	}

	first := sink.rows[0]
	if !first.HasPregnant || !first.HasNursing {
		t.Errorf("first row flags = %+v", first)
	}
	if !strings.Contains(first.PregnantText, "投与しないこと") {
		t.Errorf("pregnant text = %q", first.PregnantText)
	}
	if first.SrcIDs["pregnant"] != "p1" || first.SrcIDs["nursing"] != "n1" {
		t.Errorf("source ids = %v", first.SrcIDs)
	}

	// Broken documents still land as empty rows.
	broken := sink.rows[1]
	if broken.PackageInsertNo != "200" || broken.HasPregnant || broken.PregnantText != "" {
		t.Errorf("broken-doc row = %+v", broken)
	}
	if broken.SrcIDs != nil {
		t.Errorf("broken-doc row has source ids %v", broken.SrcIDs)
	}
}
