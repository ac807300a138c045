package agent

import (
	"context"
	"fmt"
	"strings"
)

// PlaceholderName is the agent name reported when dispatch falls through
// to the placeholder strategy. It is deliberately loud so a misconfigured
// profile directory shows up in results instead of passing silently.
const PlaceholderName = "placeholder"

// PlaceholderProvider produces deterministic output without calling any
// external service. It backs the placeholder dispatch strategy and is the
// default provider for offline runs and tests.
type PlaceholderProvider struct{}

var _ Provider = (*PlaceholderProvider)(nil)

// NewPlaceholderProvider creates the deterministic provider.
func NewPlaceholderProvider() *PlaceholderProvider {
	return &PlaceholderProvider{}
}

// Name identifies the provider.
func (p *PlaceholderProvider) Name() string { return PlaceholderName }

// Generate produces canned content shaped by the prompt: briefs, research
// notes and drafts each get a recognizable structure so downstream tasks
// and assertions have something stable to work with.
func (p *PlaceholderProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subject := firstLine(req.Prompt)
	var content string
	lower := strings.ToLower(req.Prompt)
	switch {
	case strings.Contains(lower, "brief"):
		content = fmt.Sprintf(`# Project Brief

## Executive Summary
%s

## Brand Context & Guidelines
- Brand voice: professional yet accessible
- Content approach: informative with actionable insights

## Content Objectives
1. Address the requested topic with accurate information
2. Match the target audience's knowledge level
3. Stay within the requested word budget`, subject)

	case strings.Contains(lower, "research") || strings.Contains(lower, "analysis") || strings.Contains(lower, "analyze"):
		content = fmt.Sprintf(`# Research Findings

Subject: %s

## Current Trends
- Industry adoption continues to accelerate
- Recent developments emphasize practical application

## Key Data Points
- Placeholder statistic A
- Placeholder statistic B

## Sources
- Placeholder source list`, subject)

	case strings.Contains(lower, "newsletter"):
		content = fmt.Sprintf(`# Newsletter Draft

%s

## Executive Summary
Placeholder executive summary.

## Market Highlights
Placeholder market highlights.

## Premium Insights
Placeholder premium insights.

## Expert Analysis
Placeholder expert analysis.

## Recommendations
Placeholder recommendations.

## Market Outlook
Placeholder market outlook.

## Next Steps
Placeholder call to action.`, subject)

	default:
		content = fmt.Sprintf(`# Generated Content

%s

Placeholder body produced without a configured provider.`, subject)
	}

	// Rough accounting: one token per word keeps totals plausible.
	tokensIn := int64(len(strings.Fields(req.Prompt)))
	tokensOut := int64(len(strings.Fields(content)))
	return &GenerateResult{
		Content:   content,
		Model:     PlaceholderName,
		TokensIn:  tokensIn,
		TokensOut: tokensOut,
	}, nil
}

// firstLine returns the first non-empty line of s, truncated to keep
// placeholder output readable.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 120 {
			return line[:120]
		}
		return line
	}
	return "(empty prompt)"
}
