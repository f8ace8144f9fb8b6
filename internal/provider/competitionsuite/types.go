package competitionsuite

import "encoding/json"

// Event is one entry of the competitions list.
type Event struct {
	ID   string `json:"CompetitionGuid"`
	Name string `json:"EventName"`
	Date string `json:"Date"`
}

// Detail is the performances payload for one competition: one element per
// competing group.
type Detail []Performance

// Performance is a single group's score breakdown.
type Performance struct {
	GroupName  string     `json:"GroupName"`
	Categories []Category `json:"Categories"`
}

// Category is a top-level score grouping (General Effect, Visual, Music,
// Penalties).
type Category struct {
	Name     string    `json:"Name"`
	Captions []Caption `json:"Captions"`
}

// Caption is one judged subcaption. Judge names are pointers so a missing
// field can be told apart from an empty one.
type Caption struct {
	Name           string     `json:"Name"`
	JudgeFirstName *string    `json:"JudgeFirstName"`
	JudgeLastName  *string    `json:"JudgeLastName"`
	Subcaptions    []SubScore `json:"Subcaptions"`
}

// SubScore carries one raw numeric score; see provider.ExtractScore.
type SubScore struct {
	Score json.RawMessage `json:"Score"`
}
