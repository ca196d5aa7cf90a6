package services

import (
	"context"
	"fmt"

	"realty-marketing-platform/internal/ai"
	"realty-marketing-platform/internal/logger"
	"realty-marketing-platform/utils"
)

// BilingualContent carries the six translated fields of a blog post. The
// English-slot fields are where callers normally type, but the sync engine
// tolerates Spanish text arriving there.
type BilingualContent struct {
	Title     string
	TitleEs   string
	Excerpt   string
	ExcerptEs string
	Content   string
	ContentEs string
}

// Complete reports whether every language slot is populated.
func (c BilingualContent) Complete() bool {
	return c.Title != "" && c.TitleEs != "" &&
		c.Excerpt != "" && c.ExcerptEs != "" &&
		c.Content != "" && c.ContentEs != ""
}

// BilingualSyncEngine turns a partially-bilingual record into a fully
// bilingual one: it formats the content, decides which language the caller
// actually wrote, and backfills the missing slots by translation. Fields
// the caller supplied are never overwritten.
type BilingualSyncEngine struct {
	translator ai.Translator
}

func NewBilingualSyncEngine(translator ai.Translator) *BilingualSyncEngine {
	return &BilingualSyncEngine{translator: translator}
}

// Sync resolves the record's source language and fills every empty slot.
// The three translation calls run concurrently; any failure fails the whole
// sync, so nothing partial ever reaches the store.
func (e *BilingualSyncEngine) Sync(ctx context.Context, in BilingualContent) (BilingualContent, error) {
	// Both triads supplied by the caller: nothing to reconcile, and the
	// gateway must not be touched.
	if in.Complete() {
		return in, nil
	}

	out := in

	// The English-slot content is formatted first whatever language it is
	// in; drafts arrive as plain text from the editor.
	if out.Content != "" {
		formatted, err := e.translator.FormatContent(ctx, out.Content)
		if err != nil {
			return BilingualContent{}, fmt.Errorf("%w: content formatting failed: %v", utils.ErrUpstream, err)
		}
		out.Content = formatted
	}

	source, err := e.translator.DetectLanguage(ctx, out.Content)
	if err != nil {
		// Fail open: an unreachable detector must not block publishing
		logger.Warn("Language detection failed, assuming English", "error", err)
		source = ai.LangEnglish
	}

	if source == ai.LangSpanish {
		return e.syncFromSpanish(ctx, out)
	}
	return e.syncFromEnglish(ctx, out)
}

// syncFromEnglish treats the English-slot triad as authoritative and fills
// the Spanish slots the caller left empty. The reverse direction is covered
// too: an empty English slot whose Spanish counterpart is populated (a
// Spanish-only partial edit) is rebuilt by translation so no slot of a
// half-supplied pair is ever persisted empty.
func (e *BilingualSyncEngine) syncFromEnglish(ctx context.Context, c BilingualContent) (BilingualContent, error) {
	var jobs []translationJob
	if c.TitleEs == "" && c.Title != "" {
		jobs = append(jobs, translationJob{text: c.Title, target: ai.LangSpanish, assign: func(out *BilingualContent, s string) { out.TitleEs = s }})
	}
	if c.ExcerptEs == "" && c.Excerpt != "" {
		jobs = append(jobs, translationJob{text: c.Excerpt, target: ai.LangSpanish, assign: func(out *BilingualContent, s string) { out.ExcerptEs = s }})
	}
	if c.ContentEs == "" && c.Content != "" {
		jobs = append(jobs, translationJob{text: c.Content, target: ai.LangSpanish, assign: func(out *BilingualContent, s string) { out.ContentEs = s }})
	}
	if c.Title == "" && c.TitleEs != "" {
		jobs = append(jobs, translationJob{text: c.TitleEs, target: ai.LangEnglish, assign: func(out *BilingualContent, s string) { out.Title = s }})
	}
	if c.Excerpt == "" && c.ExcerptEs != "" {
		jobs = append(jobs, translationJob{text: c.ExcerptEs, target: ai.LangEnglish, assign: func(out *BilingualContent, s string) { out.Excerpt = s }})
	}
	if c.Content == "" && c.ContentEs != "" {
		jobs = append(jobs, translationJob{text: c.ContentEs, target: ai.LangEnglish, assign: func(out *BilingualContent, s string) { out.Content = s }})
	}

	if err := e.runTranslations(ctx, &c, jobs); err != nil {
		return BilingualContent{}, err
	}
	return c, nil
}

// syncFromSpanish treats the Spanish values as authoritative. When the
// Spanish slot itself is empty the Spanish text was typed into the
// English-named field, so that value is adopted and the English slot is
// rebuilt by translation. Both slots are populated on return.
func (e *BilingualSyncEngine) syncFromSpanish(ctx context.Context, c BilingualContent) (BilingualContent, error) {
	authTitle := c.TitleEs
	if authTitle == "" {
		authTitle = c.Title
	}
	authExcerpt := c.ExcerptEs
	if authExcerpt == "" {
		authExcerpt = c.Excerpt
	}
	authContent := c.ContentEs
	if authContent == "" {
		authContent = c.Content
	}

	var jobs []translationJob
	if authTitle != "" && (c.Title == "" || c.Title == authTitle) {
		jobs = append(jobs, translationJob{text: authTitle, target: ai.LangEnglish, assign: func(out *BilingualContent, s string) { out.Title = s }})
	}
	if authExcerpt != "" && (c.Excerpt == "" || c.Excerpt == authExcerpt) {
		jobs = append(jobs, translationJob{text: authExcerpt, target: ai.LangEnglish, assign: func(out *BilingualContent, s string) { out.Excerpt = s }})
	}
	if authContent != "" && (c.Content == "" || c.Content == authContent) {
		jobs = append(jobs, translationJob{text: authContent, target: ai.LangEnglish, assign: func(out *BilingualContent, s string) { out.Content = s }})
	}

	if err := e.runTranslations(ctx, &c, jobs); err != nil {
		return BilingualContent{}, err
	}

	// Re-assign the Spanish slots from the authoritative values so both
	// triads end up populated even when the caller only filled the
	// English-named fields.
	c.TitleEs = authTitle
	c.ExcerptEs = authExcerpt
	c.ContentEs = authContent

	return c, nil
}

type translationJob struct {
	text   string
	target ai.Language
	assign func(*BilingualContent, string)
}

type translationResult struct {
	job  translationJob
	text string
	err  error
}

// runTranslations fans the jobs out concurrently and applies the results.
// The first error wins and the aggregate fails.
func (e *BilingualSyncEngine) runTranslations(ctx context.Context, c *BilingualContent, jobs []translationJob) error {
	if len(jobs) == 0 {
		return nil
	}

	results := make(chan translationResult, len(jobs))
	for _, job := range jobs {
		go func(j translationJob) {
			translated, err := e.translator.Translate(ctx, j.text, j.target)
			results <- translationResult{job: j, text: translated, err: err}
		}(job)
	}

	var firstErr error
	for range jobs {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		res.job.assign(c, res.text)
	}

	if firstErr != nil {
		return fmt.Errorf("%w: translation failed: %v", utils.ErrUpstream, firstErr)
	}
	return nil
}
