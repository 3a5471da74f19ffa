package metrics

import (
	"time"

	"github.com/google/uuid"
)

type SearchMetric struct {
	Goroutines int
	Depth      int
	Evaluator  string
	Duration   time.Duration
	Nodes      int
	Cutoffs    int
	Value      int
	Retries    int // searches restarted one ply shallower after running out of nodes
}

type MoveMetric struct {
	Step   int
	Player string
	X, Y   int // -1 for a pass
	SearchMetric
}

type GameMetric struct {
	ID             uuid.UUID
	StartingPlayer string
	Winner         string // WHITE, BLACK or DRAW
	Score          int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(goroutines, depth int, evaluator string)
	AddNodes(n int)
	AddCutoffs(n int)
	Complete(value int) SearchMetric
}

type collector struct {
	goroutines int
	depth      int
	evaluator  string
	startTime  time.Time
	nodes      int
	cutoffs    int
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, depth int, evaluator string) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.depth = depth
	m.evaluator = evaluator
	m.nodes = 0
	m.cutoffs = 0
}

func (m *collector) AddNodes(n int) {
	m.nodes += n
}

func (m *collector) AddCutoffs(n int) {
	m.cutoffs += n
}

func (m *collector) Complete(value int) SearchMetric {
	return SearchMetric{
		Goroutines: m.goroutines,
		Depth:      m.depth,
		Evaluator:  m.evaluator,
		Duration:   time.Since(m.startTime),
		Nodes:      m.nodes,
		Cutoffs:    m.cutoffs,
		Value:      value,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, depth int, evaluator string) {}
func (m *dummyCollector) AddNodes(n int)                                {}
func (m *dummyCollector) AddCutoffs(n int)                              {}
func (m *dummyCollector) Complete(value int) SearchMetric               { return SearchMetric{} }
