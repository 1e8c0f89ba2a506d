package tile

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
)

// outcome is the result of Propose for one tile.
type outcome struct {
	prop Proposal
	ok   bool
}

// RoundResult describes what one round did.
type RoundResult struct {
	// State is the snapshot after the round.
	State *State

	// Ballots holds the vote of every type that proposed something.
	Ballots map[Type]Ballot

	// Applied counts the tiles that received a cut.
	Applied int
}

// Round runs one subdivision round over s and returns the next snapshot.
// Tiles are proposed in parallel; voting and application are sequential.
func Round(g *imaging.Gray, s *State, opts Options) (*RoundResult, error) {
	props := make([]outcome, len(s.Tiles))

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range s.Tiles {
		eg.Go(func() error {
			sub, ok, err := Propose(g, s.Tiles[i], opts)
			if err != nil {
				return err
			}
			region := s.Tiles[i].Region()
			props[i] = outcome{prop: Proposal{Sub: sub, Width: region.Dx(), Height: region.Dy()}, ok: ok}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	byType := make(map[Type][]Proposal)
	members := make(map[Type][]int)
	for i, t := range s.Tiles {
		members[t.Type] = append(members[t.Type], i)
		if props[i].ok {
			byType[t.Type] = append(byType[t.Type], props[i].prop)
		}
	}

	res := &RoundResult{Ballots: make(map[Type]Ballot)}
	cuts := make(map[int]Subdivision)
	for _, typ := range s.Types() {
		ballot, ok := Vote(byType[typ], opts.VoteSigma)
		if !ok {
			continue
		}
		res.Ballots[typ] = ballot

		for _, i := range members[typ] {
			if ballot.Winner.Fits(extent(s.Tiles[i].Region(), ballot.Winner.Dir)) {
				cuts[i] = ballot.Winner
			}
		}
	}

	res.Applied = len(cuts)
	res.State = s.next(cuts)
	return res, nil
}

// Run repeats Round until no type proposes, no cut is applied, or
// opts.MaxRounds is reached. onRound, if non-nil, sees every round's result.
func Run(g *imaging.Gray, grid Grid, opts Options, onRound func(*RoundResult)) (*State, error) {
	state := NewState(grid)
	for round := 0; opts.MaxRounds <= 0 || round < opts.MaxRounds; round++ {
		res, err := Round(g, state, opts)
		if err != nil {
			return nil, err
		}
		if len(res.Ballots) == 0 || res.Applied == 0 {
			break
		}
		if onRound != nil {
			onRound(res)
		}
		state = res.State
	}
	return state, nil
}
