package workflow

import (
	"strings"
	"testing"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

func articleDefinition(t *testing.T) *models.WorkflowDefinition {
	t.Helper()
	defs, err := Builtins()
	if err != nil {
		t.Fatalf("Builtins: %v", err)
	}
	def, ok := defs["enhanced_article"]
	if !ok {
		t.Fatal("enhanced_article definition not built in")
	}
	return def
}

func TestArticlePrepareContextDefaults(t *testing.T) {
	h := NewArticleHandler(articleDefinition(t))

	ctx := models.NewContext()
	ctx.Set("topic", "renewable energy")
	ctx.Set("client_name", "GreenCo")
	ctx, err := h.PrepareContext(ctx)
	if err != nil {
		t.Fatalf("PrepareContext: %v", err)
	}

	if got := ctx.String("tone", ""); got != "professional" {
		t.Errorf("tone = %q, want professional", got)
	}
	if got := ctx.String("target_audience", ""); got != "general" {
		t.Errorf("target_audience = %q, want general", got)
	}
	if !ctx.Bool("include_sources", false) {
		t.Error("include_sources should default to true")
	}
	if got := ctx.String("content_complexity", ""); got != "medium" {
		t.Errorf("content_complexity = %q, want medium for 500 words", got)
	}
}

func TestArticlePrepareContextAudienceTone(t *testing.T) {
	h := NewArticleHandler(articleDefinition(t))

	ctx := models.NewContext()
	ctx.Set("topic", "saving money")
	ctx.Set("client_name", "BankCo")
	ctx.Set("target_audience", "young professionals")
	ctx, err := h.PrepareContext(ctx)
	if err != nil {
		t.Fatalf("PrepareContext: %v", err)
	}
	if got := ctx.String("tone", ""); got != "conversational" {
		t.Errorf("tone = %q, want conversational for young audience", got)
	}
}

func TestArticlePrepareContextExplicitToneKept(t *testing.T) {
	h := NewArticleHandler(articleDefinition(t))

	ctx := models.NewContext()
	ctx.Set("topic", "saving money")
	ctx.Set("client_name", "BankCo")
	ctx.Set("target_audience", "young professionals")
	ctx.Set("tone", "formal")
	ctx, err := h.PrepareContext(ctx)
	if err != nil {
		t.Fatalf("PrepareContext: %v", err)
	}
	if got := ctx.String("tone", ""); got != "formal" {
		t.Errorf("explicit tone overwritten: got %q", got)
	}
}

func TestArticlePrepareContextTopicFlags(t *testing.T) {
	h := NewArticleHandler(articleDefinition(t))

	ctx := models.NewContext()
	ctx.Set("topic", "AI in investment banking")
	ctx.Set("client_name", "FinTechCo")
	ctx, err := h.PrepareContext(ctx)
	if err != nil {
		t.Fatalf("PrepareContext: %v", err)
	}

	if !ctx.Bool("include_statistics", false) {
		t.Error("finance topic should enable statistics")
	}
	if !ctx.Bool("financial_content", false) {
		t.Error("finance topic should flag financial_content")
	}
	if !ctx.Bool("include_examples", false) {
		t.Error("tech topic should enable examples")
	}
	if !ctx.Bool("tech_content", false) {
		t.Error("tech topic should flag tech_content")
	}
}

func TestArticlePrepareContextComplexity(t *testing.T) {
	h := NewArticleHandler(articleDefinition(t))

	cases := []struct {
		words int
		want  string
	}{
		{200, "simple"},
		{500, "medium"},
		{1500, "detailed"},
	}
	for _, tc := range cases {
		ctx := models.NewContext()
		ctx.Set("topic", "gardening")
		ctx.Set("client_name", "GardenCo")
		ctx.Set("target_word_count", tc.words)
		ctx, err := h.PrepareContext(ctx)
		if err != nil {
			t.Fatalf("PrepareContext(%d words): %v", tc.words, err)
		}
		if got := ctx.String("content_complexity", ""); got != tc.want {
			t.Errorf("%d words: complexity = %q, want %q", tc.words, got, tc.want)
		}
	}
}

func TestArticlePostProcessTaskResearchDepth(t *testing.T) {
	h := NewArticleHandler(articleDefinition(t))

	cases := []struct {
		size int
		want string
	}{
		{500, "basic"},
		{1500, "moderate"},
		{2500, "comprehensive"},
	}
	for _, tc := range cases {
		ctx := models.NewContext()
		output := strings.Repeat("x", tc.size)
		ctx = h.PostProcessTask("task2_research", output, ctx)
		if got := ctx.String("research_depth", ""); got != tc.want {
			t.Errorf("%d chars: research_depth = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestArticlePostProcessTaskBriefSignals(t *testing.T) {
	h := NewArticleHandler(articleDefinition(t))

	ctx := models.NewContext()
	ctx = h.PostProcessTask("task1_brief", "Focus on statistics and case study material", ctx)

	if !ctx.Bool("brief_created", false) {
		t.Error("brief_created not set")
	}
	if !ctx.Bool("research_focus_data", false) {
		t.Error("statistics mention should set research_focus_data")
	}
	if !ctx.Bool("research_focus_examples", false) {
		t.Error("case study mention should set research_focus_examples")
	}
}

func TestArticlePostProcessWorkflowSummary(t *testing.T) {
	def := articleDefinition(t)
	h := NewArticleHandler(def)

	ctx := models.NewContext()
	ctx.Set("topic", "electric vehicles")
	ctx.Set("client_name", "AutoCo")
	ctx = h.PostProcessTask("task2_research", strings.Repeat("trend data ", 200), ctx)
	ctx = h.PostProcessTask("task3_content", "The article body goes here.", ctx)
	ctx.Set(models.OutputKey(def.FinalTask), "The article body goes here.")
	ctx = h.PostProcessWorkflow(ctx)

	if got := ctx.String(KeyFinalOutput, ""); got != "The article body goes here." {
		t.Errorf("final_output = %q", got)
	}
	summary, ok := ctx[KeyWorkflowSummary].(map[string]any)
	if !ok {
		t.Fatalf("workflow_summary has type %T", ctx[KeyWorkflowSummary])
	}
	if summary["topic"] != "electric vehicles" {
		t.Errorf("summary topic = %v", summary["topic"])
	}
	if summary["word_count"] != 5 {
		t.Errorf("summary word_count = %v, want 5", summary["word_count"])
	}
	if trends, _ := summary["includes_trends"].(bool); !trends {
		t.Error("trend mentions should set includes_trends")
	}
}
