package tracker

import "errors"

var ErrInvalidVoteAction = errors.New("vote action must be like or dislike")

type VoteAction string

const (
	VoteActionLike    VoteAction = "like"
	VoteActionDislike VoteAction = "dislike"
)

func (a VoteAction) Valid() bool {
	return a == VoteActionLike || a == VoteActionDislike
}

// VoteRecord holds the votes already cast from one client session, by report id.
type VoteRecord map[int64]VoteAction

// Apply bumps the counter matching action on report.
func (a VoteAction) Apply(report *Report) {
	switch a {
	case VoteActionLike:
		report.Likes++
	case VoteActionDislike:
		report.Dislikes++
	}
}
