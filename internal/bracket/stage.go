package bracket

import (
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"
)

type StageID string

const (
	QF1   StageID = "qf1"
	QF2   StageID = "qf2"
	QF3   StageID = "qf3"
	QF4   StageID = "qf4"
	SF1   StageID = "sf1"
	SF2   StageID = "sf2"
	Final StageID = "final"
)

type Round string

const (
	RoundQuarterfinal Round = "quarterfinal"
	RoundSemifinal    Round = "semifinal"
	RoundFinal        Round = "final"
)

const (
	GroupA = "A"
	GroupB = "B"

	// Players per group who advance to the quarterfinals
	Qualifiers = 4
)

// Seed is a group position, e.g. {A, 1} for the winner of group A
type Seed struct {
	Group    string
	Position int
}

func (s Seed) String() string {
	return fmt.Sprintf("%s%d", s.Group, s.Position)
}

type stage struct {
	ID    StageID
	Round Round
	Order int

	// Quarterfinals are filled from group seeds, everything after from
	// the winners of the two feeder stages
	Seeds   [2]Seed
	Feeders [2]StageID
}

func (s stage) seeded() bool {
	return s.Feeders[0] == ""
}

func (s stage) label(slot int) string {
	if s.seeded() {
		return s.Seeds[slot].String()
	}
	return "Winner " + strings.ToUpper(string(s.Feeders[slot]))
}

// A1-B4, A3-B2, A2-B3, A4-B1 so that the two group winners can only meet
// in the final
var stages = []stage{
	{ID: QF1, Round: RoundQuarterfinal, Order: 1, Seeds: [2]Seed{{GroupA, 1}, {GroupB, 4}}},
	{ID: QF2, Round: RoundQuarterfinal, Order: 2, Seeds: [2]Seed{{GroupA, 3}, {GroupB, 2}}},
	{ID: QF3, Round: RoundQuarterfinal, Order: 3, Seeds: [2]Seed{{GroupA, 2}, {GroupB, 3}}},
	{ID: QF4, Round: RoundQuarterfinal, Order: 4, Seeds: [2]Seed{{GroupA, 4}, {GroupB, 1}}},
	{ID: SF1, Round: RoundSemifinal, Order: 5, Feeders: [2]StageID{QF1, QF2}},
	{ID: SF2, Round: RoundSemifinal, Order: 6, Feeders: [2]StageID{QF3, QF4}},
	{ID: Final, Round: RoundFinal, Order: 7, Feeders: [2]StageID{SF1, SF2}},
}

var (
	stagesByID = indexStages(stages)
	stageOrder = mustStageOrder(stages)
)

func indexStages(list []stage) map[StageID]stage {
	byID := make(map[StageID]stage, len(list))
	for _, s := range list {
		byID[s.ID] = s
	}
	return byID
}

func stageHash(id StageID) StageID {
	return id
}

// The stages form a DAG with an edge from each feeder to the stage it
// feeds. Resolving in topological order guarantees both feeders are
// decided before a stage looks at them.
func newStageGraph(list []stage) (graph.Graph[StageID, StageID], error) {
	g := graph.New(stageHash, graph.Directed(), graph.PreventCycles())

	for _, s := range list {
		if err := g.AddVertex(s.ID); err != nil {
			return nil, fmt.Errorf("failed to add stage %s: %w", s.ID, err)
		}
	}
	for _, s := range list {
		if s.seeded() {
			continue
		}
		for _, f := range s.Feeders {
			if err := g.AddEdge(f, s.ID); err != nil {
				return nil, fmt.Errorf("failed to link %s to %s: %w", f, s.ID, err)
			}
		}
	}

	return g, nil
}

func resolutionOrder(list []stage) ([]StageID, error) {
	g, err := newStageGraph(list)
	if err != nil {
		return nil, err
	}

	byID := indexStages(list)
	return graph.StableTopologicalSort(g, func(a, b StageID) bool {
		return byID[a].Order < byID[b].Order
	})
}

func mustStageOrder(list []stage) []StageID {
	order, err := resolutionOrder(list)
	if err != nil {
		panic(err)
	}
	return order
}

// Stages returns every stage id in resolution order
func Stages() []StageID {
	out := make([]StageID, len(stageOrder))
	copy(out, stageOrder)
	return out
}

func ValidStage(id StageID) bool {
	_, ok := stagesByID[id]
	return ok
}
