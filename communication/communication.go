package communication

// AnalysisRequest asks for a search of one position. The position is either
// Board (rows of 'W', 'B' and '.') with Player to move, or the start position
// followed by Moves with White first and implicit passes.
type AnalysisRequest struct {
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Board     string   `json:"board,omitempty"`
	Player    string   `json:"player,omitempty"`
	Moves     [][2]int `json:"moves,omitempty"`
	Depth     int      `json:"depth"`
	Evaluator string   `json:"evaluator"`
}

// AnalysisResponse reports the value of the position and every move that
// reaches it. A pass is reported as (-1, -1).
type AnalysisResponse struct {
	Player string   `json:"player"`
	Value  int      `json:"value"`
	Best   [][2]int `json:"best"`
	Moves  [][2]int `json:"moves"`
	Leaf   bool     `json:"leaf"`
	Score  int      `json:"score"`
	Board  string   `json:"board"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
