package llm

import (
	"fmt"
	"strings"
)

const analysisInstructions = `You are an expert in customer sentiment analysis. Analyze the following batch of customer reviews.
1.  For each review, determine its sentiment and assign a sentiment score from 1 (very negative) to 5 (very positive). Create a sequential time period for each review (e.g., 'Review 1', 'Review 2', 'Review 3', etc.).
2.  Identify the top 15 most frequent and meaningful keywords or short phrases associated with positive feedback (praises) and the top 15 for negative feedback (complaints). For each keyword, provide a frequency count as its value.
3.  Write a concise executive summary (around 150 words) that identifies the top 3 actionable areas for improvement based on the reviews.
4.  Provide the entire output in the requested JSON format, strictly adhering to the provided schema.`

const chatInstructions = `You are a helpful assistant analyzing customer feedback. The user has provided a set of reviews and an AI-generated summary. Your task is to answer the user's questions based ONLY on this provided context. Do not use external knowledge.`

// Schema descriptions shared by every provider's output schema.
const (
	TrendDescription     = "An array of objects representing sentiment over time. The 'period' should be sequential like 'Review 1', 'Review 2', etc."
	ScoreDescription     = "A score from 1 (very negative) to 5 (very positive)"
	PraisesDescription   = "Top 15 most frequent and meaningful keywords/phrases from positive feedback."
	ComplaintDescription = "Top 15 most frequent and meaningful keywords/phrases from negative feedback."
	ValueDescription     = "Frequency count, scaled for importance"
	SummaryDescription   = "A concise executive summary (around 150 words) identifying the top 3 actionable areas for improvement based on the reviews."
)

// AnalysisPrompt embeds the raw reviews, unescaped, between --- delimiters.
func AnalysisPrompt(reviews string) string {
	return fmt.Sprintf("%s\n\nHere are the reviews:\n---\n%s\n---\n", analysisInstructions, strings.TrimSpace(reviews))
}

// BuildChatContext is fixed for the lifetime of a chat session.
func BuildChatContext(reviews, summary string) string {
	var b strings.Builder
	b.WriteString("--- START OF REVIEWS ---\n")
	b.WriteString(strings.TrimSpace(reviews))
	b.WriteString("\n--- END OF REVIEWS ---\n\n")
	b.WriteString("--- START OF AI SUMMARY ---\n")
	b.WriteString(strings.TrimSpace(summary))
	b.WriteString("\n--- END OF AI SUMMARY ---\n")
	return b.String()
}

func ChatSystemPrompt(chatContext string) string {
	return fmt.Sprintf("%s\n\nCONTEXT:\n%s", chatInstructions, chatContext)
}
