package tile

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

// measured wraps cuts that were all measured in a width x height region.
func measured(width, height int, subs ...Subdivision) []Proposal {
	out := make([]Proposal, len(subs))
	for i, s := range subs {
		out[i] = Proposal{Sub: s, Width: width, Height: height}
	}
	return out
}

func TestVote(t *testing.T) {
	tests := []struct {
		name      string
		proposals []Proposal
		want      Subdivision
	}{
		{
			name: "column majority",
			proposals: measured(60, 60,
				Subdivision{Dir: Left, Distance: 15},
				Subdivision{Dir: Left, Distance: 16},
				Subdivision{Dir: Right, Distance: 44},
				Subdivision{Dir: Top, Distance: 10},
			),
			want: Subdivision{Dir: Left, Distance: 15},
		},
		{
			name: "right edge counts from leading edge",
			proposals: measured(60, 60,
				Subdivision{Dir: Right, Dual: true, Distance: 20},
				Subdivision{Dir: Left, Distance: 39},
				Subdivision{Dir: Left, Distance: 5},
			),
			want: Subdivision{Dir: Right, Dual: true, Distance: 20},
		},
		{
			name: "rows only",
			proposals: measured(60, 60,
				Subdivision{Dir: Bottom, Distance: 12},
				Subdivision{Dir: Bottom, Distance: 12},
				Subdivision{Dir: Top, Distance: 30},
			),
			want: Subdivision{Dir: Bottom, Distance: 12},
		},
		{
			name: "equal peaks prefer row cut",
			proposals: measured(60, 60,
				Subdivision{Dir: Left, Distance: 10},
				Subdivision{Dir: Top, Distance: 10},
			),
			want: Subdivision{Dir: Top, Distance: 10},
		},
		{
			// 50-1-29 = 20: both sit 20 px from the leading edge of a 50 px region.
			name: "right cut in a narrowed region",
			proposals: []Proposal{
				{Sub: Subdivision{Dir: Left, Distance: 5}, Width: 60, Height: 60},
				{Sub: Subdivision{Dir: Right, Distance: 29}, Width: 50, Height: 60},
				{Sub: Subdivision{Dir: Left, Distance: 20}, Width: 50, Height: 60},
			},
			want: Subdivision{Dir: Right, Distance: 29},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := Vote(tt.proposals, DefaultVoteSigma)
			if !ok {
				t.Fatal("expected a ballot")
			}
			if b.Winner != tt.want {
				t.Errorf("winner: got %+v, want %+v", b.Winner, tt.want)
			}
		})
	}
}

func TestVote_Empty(t *testing.T) {
	if _, ok := Vote(nil, DefaultVoteSigma); ok {
		t.Error("no proposals must produce no ballot")
	}
}

func TestVote_Peaks(t *testing.T) {
	b, ok := Vote(measured(40, 40, Subdivision{Dir: Top, Distance: 5}), DefaultVoteSigma)
	if !ok {
		t.Fatal("expected a ballot")
	}
	if b.ColumnPeak != 0 {
		t.Errorf("ColumnPeak: got %v, want 0", b.ColumnPeak)
	}
	if b.RowPeak <= 0 {
		t.Errorf("RowPeak: got %v, want > 0", b.RowPeak)
	}
}

func TestVote_PoolsLeftAndRightInRegionFrame(t *testing.T) {
	// Left 20 and Right 29 in a 50 px region describe the same line.
	b, ok := Vote([]Proposal{
		{Sub: Subdivision{Dir: Left, Distance: 20}, Width: 50, Height: 60},
		{Sub: Subdivision{Dir: Right, Distance: 29}, Width: 50, Height: 60},
	}, DefaultVoteSigma)
	if !ok {
		t.Fatal("expected a ballot")
	}

	want := 2 * distuv.Normal{Mu: 0, Sigma: DefaultVoteSigma}.Prob(0)
	if math.Abs(b.ColumnPeak-want) > 1e-12 {
		t.Errorf("ColumnPeak: got %v, want %v (two pooled votes)", b.ColumnPeak, want)
	}
	if b.Winner != (Subdivision{Dir: Left, Distance: 20}) {
		t.Errorf("winner: got %+v", b.Winner)
	}
}
