package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisPrompt_EmbedsReviewsVerbatim(t *testing.T) {
	t.Parallel()

	got := AnalysisPrompt("Great app!\nToo slow to load.\n")
	assert.True(t, strings.HasPrefix(got, "You are an expert in customer sentiment analysis."))
	assert.Contains(t, got, "---\nGreat app!\nToo slow to load.\n---")
	assert.Contains(t, got, "'Review 1', 'Review 2'")
}

func TestBuildChatContext(t *testing.T) {
	t.Parallel()

	ctx := BuildChatContext("  Great app!\nSlow.  ", "Speed matters.")
	assert.Equal(t, "--- START OF REVIEWS ---\nGreat app!\nSlow.\n--- END OF REVIEWS ---\n\n--- START OF AI SUMMARY ---\nSpeed matters.\n--- END OF AI SUMMARY ---\n", ctx)

	prompt := ChatSystemPrompt(ctx)
	assert.Contains(t, prompt, "based ONLY on this provided context")
	assert.True(t, strings.HasSuffix(prompt, "CONTEXT:\n"+ctx))
}

func TestModeFromThinking(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ModeThinking, ModeFromThinking(true))
	assert.Equal(t, ModeFast, ModeFromThinking(false))
	assert.Equal(t, "thinking", ModeThinking.String())
	assert.Equal(t, "fast", ModeFast.String())
}
