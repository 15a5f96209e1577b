// internal/survey/questions.go
package survey

import "pathfinder-workers/internal/recommendation"

// Question is one Likert statement and the interest category it feeds.
type Question struct {
	Text     string
	Category string
}

// Questionnaire is the fixed interest survey, indexed from zero.
var Questionnaire = []Question{
	{Text: "I enjoy solving complex mathematical problems.", Category: recommendation.KeyQuantInterest},
	{Text: "I like writing essays or storytelling.", Category: recommendation.KeyVerbalInterest},
	{Text: "I enjoy logic puzzles and strategy games.", Category: recommendation.KeyLogicalInterest},
	{Text: "I am interested in how computers and software work.", Category: recommendation.KeyLogicalInterest},
	{Text: "I like speaking in front of groups or debating.", Category: recommendation.KeyVerbalInterest},
	{Text: "I prefer working with data, statistics, and charts.", Category: recommendation.KeyQuantInterest},
	{Text: "I enjoy fixing things or understanding how they are built.", Category: recommendation.KeyLogicalInterest},
	{Text: "I like drawing, designing, or creating visual art.", Category: recommendation.KeyCreativeInterest},
	{Text: "I enjoy reading books and analyzing literature.", Category: recommendation.KeyVerbalInterest},
	{Text: "I am curious about scientific theories and experiments.", Category: recommendation.KeyLogicalInterest},
}

// Options are the answer labels, rating 1 through 5.
var Options = []string{"Strongly Disagree", "Disagree", "Neutral", "Agree", "Strongly Agree"}
