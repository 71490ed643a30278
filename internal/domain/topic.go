package domain

// Topic is a static coaching topic descriptor. Topics are defined at process
// start and immutable for the process lifetime.
type Topic struct {
	Key              string   `json:"key"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	InitialQuestions []string `json:"initial_questions"`
	ExplorationAreas []string `json:"exploration_areas"`
}
