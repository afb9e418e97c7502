package service

import (
	"fmt"
	"strings"

	"github.com/ibrahim-kiri/rate-my-professor/internal/models"
)

// SystemPrompt frames every completion.
const SystemPrompt = `You are a helpful assistant for a 'Rate My Professor' system designed to assist students in finding the best professors according to their needs. Your job is to provide the top 3 professor recommendations based on the user's query, using the professor reviews retrieved for you.

When a student asks a question, you should:

Interpret the Query: Understand the user's intent, which may include preferences such as subject expertise, teaching style, student satisfaction, or overall rating.

Use the Retrieved Information: The reviews appended to the student's message come from the professor index. Base your answer on them and do not invent professors.

Generate a Response: Provide the top 3 professors that best match the query. For each professor include:
- Name of the professor.
- Department or subject area.
- Average rating (out of 5 stars).
- A brief summary of what makes this professor a good match based on the query.
- Any relevant highlights from student reviews.

If none of the retrieved professors fit, say so plainly.

Respond with a polite and informative tone, keeping the student's needs in mind.`

// resultsHeader introduces the retrieved reviews inside the user turn.
const resultsHeader = "\n\nReturned results from vector db (done automatically):"

// FormatMatches renders retrieved reviews as the block appended to the user's
// last message.
func FormatMatches(matches []models.Match) string {
	var sb strings.Builder
	sb.WriteString(resultsHeader)
	if len(matches) == 0 {
		sb.WriteString(" none\n")
		return sb.String()
	}
	for _, m := range matches {
		sb.WriteString(fmt.Sprintf("\n\nProfessor: %s\nReview: %s\nSubject: %s\nStars: %g\n", m.Professor, m.Review, m.Subject, m.Stars))
	}
	return sb.String()
}

// augmentHistory returns a copy of history whose last message carries the
// retrieved reviews. The caller's slice is left untouched.
func augmentHistory(history []models.Message, matches []models.Match) []models.Message {
	out := make([]models.Message, len(history))
	copy(out, history)
	last := &out[len(out)-1]
	last.Content += FormatMatches(matches)
	return out
}
