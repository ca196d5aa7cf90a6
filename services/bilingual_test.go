package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"realty-marketing-platform/internal/ai"
	"realty-marketing-platform/utils"
)

// fakeTranslator is a deterministic Translator double. Translations are
// prefixed with the target language so assertions can tell them apart from
// caller-supplied text.
type fakeTranslator struct {
	mu             sync.Mutex
	translateCalls int
	formatCalls    int
	detectCalls    int

	detectResult ai.Language
	detectErr    error
	translateErr error
	formatFunc   func(string) string
}

func (f *fakeTranslator) Translate(ctx context.Context, text string, target ai.Language) (string, error) {
	f.mu.Lock()
	f.translateCalls++
	f.mu.Unlock()
	if f.translateErr != nil {
		return "", f.translateErr
	}
	return "[" + string(target) + "]" + text, nil
}

func (f *fakeTranslator) DetectLanguage(ctx context.Context, text string) (ai.Language, error) {
	f.mu.Lock()
	f.detectCalls++
	f.mu.Unlock()
	if f.detectErr != nil {
		return "", f.detectErr
	}
	return f.detectResult, nil
}

func (f *fakeTranslator) FormatContent(ctx context.Context, raw string) (string, error) {
	f.mu.Lock()
	f.formatCalls++
	f.mu.Unlock()
	if f.formatFunc != nil {
		return f.formatFunc(raw), nil
	}
	return raw, nil
}

func (f *fakeTranslator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.translateCalls
}

func TestSyncEnglishSourceBackfillsSpanish(t *testing.T) {
	fake := &fakeTranslator{detectResult: ai.LangEnglish}
	engine := NewBilingualSyncEngine(fake)

	in := BilingualContent{
		Title:   "Buying in Myrtle Beach",
		Excerpt: "A short guide.",
		Content: "<p>Full guide body.</p>",
	}

	out, err := engine.Sync(context.Background(), in)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	// English triad untouched
	if out.Title != in.Title || out.Excerpt != in.Excerpt || out.Content != in.Content {
		t.Errorf("English triad modified: %+v", out)
	}

	// Spanish triad backfilled by translation
	if out.TitleEs != "[es]Buying in Myrtle Beach" {
		t.Errorf("TitleEs = %q", out.TitleEs)
	}
	if out.ExcerptEs != "[es]A short guide." {
		t.Errorf("ExcerptEs = %q", out.ExcerptEs)
	}
	if out.ContentEs != "[es]<p>Full guide body.</p>" {
		t.Errorf("ContentEs = %q", out.ContentEs)
	}

	if fake.calls() != 3 {
		t.Errorf("expected 3 translation calls, got %d", fake.calls())
	}
}

func TestSyncCallerSuppliedFieldsNeverOverwritten(t *testing.T) {
	fake := &fakeTranslator{detectResult: ai.LangEnglish}
	engine := NewBilingualSyncEngine(fake)

	in := BilingualContent{
		Title:   "Title",
		TitleEs: "Título del autor",
		Excerpt: "Excerpt",
		Content: "Body",
	}

	out, err := engine.Sync(context.Background(), in)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if out.TitleEs != "Título del autor" {
		t.Errorf("caller-supplied TitleEs overwritten: %q", out.TitleEs)
	}
	if fake.calls() != 2 {
		t.Errorf("expected 2 translation calls (excerpt, content), got %d", fake.calls())
	}
}

func TestSyncEnglishSourceRebuildsEmptyEnglishSlot(t *testing.T) {
	fake := &fakeTranslator{detectResult: ai.LangEnglish}
	engine := NewBilingualSyncEngine(fake)

	// A Spanish-only partial edit arrives with the English title cleared
	// for rebuilding while the rest of the record stays English.
	in := BilingualContent{
		TitleEs:   "Título corregido",
		Excerpt:   "An excerpt.",
		ExcerptEs: "Un resumen.",
		Content:   "<p>Body.</p>",
		ContentEs: "<p>Cuerpo.</p>",
	}

	out, err := engine.Sync(context.Background(), in)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if out.Title != "[en]Título corregido" {
		t.Errorf("English title not rebuilt from Spanish: %q", out.Title)
	}
	if out.TitleEs != "Título corregido" {
		t.Errorf("supplied Spanish title changed: %q", out.TitleEs)
	}
	if fake.calls() != 1 {
		t.Errorf("expected 1 translation call (title es->en), got %d", fake.calls())
	}
}

func TestSyncFullyBilingualInputIsUntouched(t *testing.T) {
	fake := &fakeTranslator{detectResult: ai.LangEnglish}
	engine := NewBilingualSyncEngine(fake)

	in := BilingualContent{
		Title: "T", TitleEs: "TE",
		Excerpt: "E", ExcerptEs: "EE",
		Content: "C", ContentEs: "CE",
	}

	out, err := engine.Sync(context.Background(), in)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if out != in {
		t.Errorf("fully bilingual input changed: %+v", out)
	}
	if fake.calls() != 0 || fake.formatCalls != 0 || fake.detectCalls != 0 {
		t.Errorf("gateway touched for complete input: translate=%d format=%d detect=%d",
			fake.calls(), fake.formatCalls, fake.detectCalls)
	}
}

func TestSyncSpanishTypedIntoEnglishFields(t *testing.T) {
	fake := &fakeTranslator{detectResult: ai.LangSpanish}
	engine := NewBilingualSyncEngine(fake)

	in := BilingualContent{
		Title:   "Comprar en Myrtle Beach",
		Excerpt: "Una guía corta.",
		Content: "Cuerpo completo.",
	}

	out, err := engine.Sync(context.Background(), in)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	// Spanish slots adopt the authoritative values the caller typed into
	// the English-named fields
	if out.TitleEs != "Comprar en Myrtle Beach" {
		t.Errorf("TitleEs = %q", out.TitleEs)
	}
	if out.ExcerptEs != "Una guía corta." {
		t.Errorf("ExcerptEs = %q", out.ExcerptEs)
	}
	if out.ContentEs != "Cuerpo completo." {
		t.Errorf("ContentEs = %q", out.ContentEs)
	}

	// English slots rebuilt by translation
	if !strings.HasPrefix(out.Title, "[en]") {
		t.Errorf("Title not translated to English: %q", out.Title)
	}
	if !strings.HasPrefix(out.Excerpt, "[en]") {
		t.Errorf("Excerpt not translated to English: %q", out.Excerpt)
	}
	if !strings.HasPrefix(out.Content, "[en]") {
		t.Errorf("Content not translated to English: %q", out.Content)
	}
}

func TestSyncSpanishSourceKeepsSuppliedEnglish(t *testing.T) {
	fake := &fakeTranslator{detectResult: ai.LangSpanish}
	engine := NewBilingualSyncEngine(fake)

	in := BilingualContent{
		Title:   "Real English title",
		TitleEs: "Título en español",
		Excerpt: "Resumen en español",
		Content: "Cuerpo en español",
	}

	out, err := engine.Sync(context.Background(), in)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	// The genuinely English title the caller supplied survives
	if out.Title != "Real English title" {
		t.Errorf("supplied English title overwritten: %q", out.Title)
	}
	// The Spanish-typed English slots are replaced with translations
	if !strings.HasPrefix(out.Excerpt, "[en]") {
		t.Errorf("Excerpt not translated: %q", out.Excerpt)
	}
	if out.TitleEs != "Título en español" {
		t.Errorf("TitleEs changed: %q", out.TitleEs)
	}
}

func TestSyncDetectionFailureFallsBackToEnglish(t *testing.T) {
	fake := &fakeTranslator{detectErr: errors.New("model unreachable")}
	engine := NewBilingualSyncEngine(fake)

	in := BilingualContent{Title: "T", Excerpt: "E", Content: "C"}

	out, err := engine.Sync(context.Background(), in)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	// Fail-open: treated as English source, Spanish backfilled
	if out.TitleEs != "[es]T" {
		t.Errorf("TitleEs = %q, detection fallback not applied", out.TitleEs)
	}
}

func TestSyncTranslationFailureFailsWholeCall(t *testing.T) {
	fake := &fakeTranslator{
		detectResult: ai.LangEnglish,
		translateErr: errors.New("quota exceeded"),
	}
	engine := NewBilingualSyncEngine(fake)

	in := BilingualContent{Title: "T", Excerpt: "E", Content: "C"}

	_, err := engine.Sync(context.Background(), in)
	if err == nil {
		t.Fatal("expected error when translation fails")
	}
	if !errors.Is(err, utils.ErrUpstream) {
		t.Errorf("error not classified as upstream: %v", err)
	}
}

func TestSyncFormatterAppliedToContent(t *testing.T) {
	fake := &fakeTranslator{
		detectResult: ai.LangEnglish,
		formatFunc:   func(raw string) string { return "<p>" + raw + "</p>" },
	}
	engine := NewBilingualSyncEngine(fake)

	out, err := engine.Sync(context.Background(), BilingualContent{
		Title: "T", Excerpt: "E", Content: "plain body",
	})
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if out.Content != "<p>plain body</p>" {
		t.Errorf("Content not formatted: %q", out.Content)
	}
	// The Spanish content is translated from the formatted version
	if out.ContentEs != "[es]<p>plain body</p>" {
		t.Errorf("ContentEs = %q", out.ContentEs)
	}
	if fake.formatCalls != 1 {
		t.Errorf("formatCalls = %d, want 1", fake.formatCalls)
	}
}
