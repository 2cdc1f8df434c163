package game

import "errors"

// Every error here rejects a single inbound action; none is fatal to the table.
var (
	ErrInvalidName      = errors.New("display name is blank")
	ErrUnknownPlayer    = errors.New("player not found")
	ErrAlreadyJoined    = errors.New("player already joined")
	ErrNotAccepting     = errors.New("round is not accepting submissions")
	ErrAlreadySubmitted = errors.New("already submitted this round")
	ErrJudgeCannotPlay  = errors.New("the judge does not submit")
	ErrCardNotInHand    = errors.New("card is not in your hand")
	ErrBlankNeedsText   = errors.New("blank card needs custom text")
	ErrNotJudge         = errors.New("only the judge can pick, and only once")
	ErrUnknownWinner    = errors.New("no such submission this round")
)
