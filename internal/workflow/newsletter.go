package workflow

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

// newsletterSection pairs a section name with its share of the total word
// budget. The weights sum to 1.0 across the fixed 7-section structure.
type newsletterSection struct {
	name   string
	weight float64
}

// newsletterSections is the fixed section layout of a premium newsletter,
// in reading order.
var newsletterSections = []newsletterSection{
	{"executive_summary", 0.15},
	{"market_highlights", 0.20},
	{"premium_insights", 0.25},
	{"expert_analysis", 0.15},
	{"recommendations", 0.15},
	{"market_outlook", 0.07},
	{"client_cta", 0.03},
}

// SectionWordCounts distributes a total word budget across the newsletter
// sections using largest-remainder apportionment, so the per-section
// budgets always sum exactly to the total.
func SectionWordCounts(total int) map[string]int {
	type share struct {
		name string
		base int
		frac float64
	}

	shares := make([]share, 0, len(newsletterSections))
	allocated := 0
	for _, s := range newsletterSections {
		exact := float64(total) * s.weight
		base := int(exact)
		shares = append(shares, share{name: s.name, base: base, frac: exact - float64(base)})
		allocated += base
	}

	// Hand the leftover words to the sections with the largest fractional
	// parts, ties broken by section order for determinism.
	remainder := total - allocated
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return shares[order[a]].frac > shares[order[b]].frac
	})
	for i := 0; i < remainder; i++ {
		shares[order[i%len(order)]].base++
	}

	counts := make(map[string]int, len(shares))
	for _, s := range shares {
		counts[s.name] = s.base
	}
	return counts
}

// NewsletterHandler implements the premium_newsletter workflow type: a
// three-stage pipeline that mines premium source URLs and assembles a
// fixed 7-section newsletter under a strict word budget.
type NewsletterHandler struct {
	BaseHandler
}

var _ Handler = (*NewsletterHandler)(nil)

// NewNewsletterHandler creates the handler bound to its definition.
func NewNewsletterHandler(def *models.WorkflowDefinition) *NewsletterHandler {
	return &NewsletterHandler{BaseHandler{Definition: def}}
}

// ValidateInputs layers URL-shape checking over the definition-driven
// bounds. Length, range and cardinality constraints come from the
// definition's variable specs; every violation is collected together.
func (h *NewsletterHandler) ValidateInputs(ctx models.Context) error {
	var violations []string
	if err := h.BaseHandler.ValidateInputs(ctx); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			violations = append(violations, verr.Violations...)
		} else {
			violations = append(violations, err.Error())
		}
	}

	for _, src := range ctx.StringSlice("premium_sources") {
		if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
			violations = append(violations, fmt.Sprintf("invalid URL format: %s", src))
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// PrepareContext sets newsletter defaults, normalizes list inputs that may
// arrive as delimited strings, and pre-computes the per-section word
// budgets so templates reference plain keys instead of arithmetic.
func (h *NewsletterHandler) PrepareContext(ctx models.Context) (models.Context, error) {
	ctx, err := h.BaseHandler.PrepareContext(ctx)
	if err != nil {
		return ctx, err
	}

	setDefault(ctx, "target_word_count", 1200)
	setDefault(ctx, "edition_number", 1)
	setDefault(ctx, "custom_instructions", "")

	ctx.Set("premium_sources", ctx.StringSlice("premium_sources"))
	ctx.Set("exclude_topics", splitCommaList(ctx, "exclude_topics"))
	ctx.Set("priority_sections", splitCommaList(ctx, "priority_sections"))

	total := ctx.Int("target_word_count", 1200)
	counts := SectionWordCounts(total)
	ctx.Set("section_word_counts", counts)
	for name, words := range counts {
		ctx.Set("section_words_"+name, words)
	}

	log.Printf("[workflow] newsletter context prepared: %d sources, %d word budget",
		len(ctx.StringSlice("premium_sources")), total)
	return ctx, nil
}

// PostProcessTask records per-stage metrics: source analysis counts and
// word-count accuracy of the assembled newsletter.
func (h *NewsletterHandler) PostProcessTask(taskID, output string, ctx models.Context) models.Context {
	switch taskID {
	case "task1_enhanced_context":
		ctx.Set("brand_guidelines_extracted", true)
	case "task2_premium_analysis":
		ctx.Set("premium_sources_analyzed", len(ctx.StringSlice("premium_sources")))
	case "task3_newsletter_creation":
		words := len(strings.Fields(output))
		ctx.Set("final_word_count", words)
		target := ctx.Int("target_word_count", 1200)
		if target > 0 {
			ctx.Set("word_count_accuracy", float64(words)/float64(target)*100)
		}
	}
	return ctx
}

// PostProcessWorkflow selects the deliverable and builds the
// newsletter-specific run summary.
func (h *NewsletterHandler) PostProcessWorkflow(ctx models.Context) models.Context {
	ctx = h.BaseHandler.PostProcessWorkflow(ctx)
	accuracy := ctx.Float("word_count_accuracy", 0)
	ctx.Set(KeyWorkflowSummary, map[string]any{
		"workflow_type":          h.Definition.Handler,
		"newsletter_topic":       ctx.String("newsletter_topic", ""),
		"client":                 ctx.String("client_name", ""),
		"target_audience":        ctx.String("target_audience", ""),
		"edition_number":         ctx.Int("edition_number", 1),
		"premium_sources_count":  len(ctx.StringSlice("premium_sources")),
		"target_word_count":      ctx.Int("target_word_count", 1200),
		"final_word_count":       ctx.Int("final_word_count", 0),
		"word_count_accuracy":    accuracy,
		"sources_analyzed":       ctx.Int("premium_sources_analyzed", 0),
		"word_count_target_met":  accuracy > 0 && accuracy >= 90 && accuracy <= 110,
		"brand_guidelines_found": ctx.Bool("brand_guidelines_extracted", false),
	})
	return ctx
}

// splitCommaList normalizes a comma-separated string or list value into a
// trimmed []string.
func splitCommaList(ctx models.Context, key string) []string {
	if items := ctx.StringSlice(key); items != nil {
		// Entries may still carry commas when supplied as one line.
		var out []string
		for _, item := range items {
			for _, part := range strings.Split(item, ",") {
				part = strings.TrimSpace(part)
				if part != "" {
					out = append(out, part)
				}
			}
		}
		return out
	}
	return []string{}
}
