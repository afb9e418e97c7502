package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMatches(t *testing.T) {
	got := FormatMatches(sampleMatches[:1])
	want := "\n\nReturned results from vector db (done automatically):" +
		"\n\nProfessor: Dr. Emily Johnson\nReview: Clear explanations of algorithms.\nSubject: Computer Science\nStars: 5\n"
	assert.Equal(t, want, got)
}

func TestFormatMatches_Empty(t *testing.T) {
	assert.Equal(t, resultsHeader+" none\n", FormatMatches(nil))
}

func TestFormatMatches_FractionalStars(t *testing.T) {
	assert.Contains(t, FormatMatches(sampleMatches[1:]), "Stars: 3.5\n")
}
