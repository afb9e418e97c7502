package models

// Review is one student review of a professor, the unit stored in the index.
// The JSON shape matches the reviews.json file used to seed the index.
type Review struct {
	Professor string  `bson:"_id" json:"professor"` // professor name, also the document key
	Review    string  `bson:"review" json:"review"`
	Subject   string  `bson:"subject" json:"subject"`
	Stars     float64 `bson:"stars" json:"stars"`
}

// ReviewFile is the top-level layout of reviews.json.
type ReviewFile struct {
	Reviews []Review `json:"reviews"`
}

// ProfessorDoc is a Review plus its stored embedding.
type ProfessorDoc struct {
	Review    `bson:",inline"`
	Embedding []float32 `bson:"embedding" json:"-"` // excluded from JSON
}

// Match is a Review returned by a vector search together with its similarity.
type Match struct {
	Professor string  `bson:"_id" json:"professor"`
	Review    string  `bson:"review" json:"review"`
	Subject   string  `bson:"subject" json:"subject"`
	Stars     float64 `bson:"stars" json:"stars"`
	Score     float64 `bson:"score" json:"score"` // vector search score
}
