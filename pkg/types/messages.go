package types

// Client -> Server
// join:
//   name: string (trimmed server-side, capped at 15 runes)
//
// ready: {}
//
// submit:
//   card: string               // must be in your hand; "__BLANK__" allowed
//   customText: string         // required with "__BLANK__", capped + filtered
//
// pick:
//   submissionId: string       // opaque id from the anonymized submission list
//
// chat:
//   text: string               // capped + filtered, relayed to everyone
//
// admin:
//   password: string
//   command: "login" | "reset" | "addBot"
//
// music:
//   payload: any               // relayed verbatim to everyone

// Server -> Client
// state:
//   version: number            // monotonically increasing per broadcast
//   state:
//     phase: "LOBBY" | "ROUND_ACTIVE" | "JUDGING" | "GAME_OVER"
//     players: [{ id, name, score, isJudge, hasSubmitted, ready, isBot }]
//     promptCard: string
//     submissions: [{ id, text }]  // present only once the round is complete,
//                                  // shuffled, no player identity
//     submittedCount: number
//     judgeName: string
//     readyCount: number
//     round: number
//   you: string                // your connection/player id
//   hand: string[]             // only once joined; only your own
//
// winner:      { name }       // round winner announced
// gameOver:    { name }       // win threshold reached
// forceReload: { reason }     // you were evicted or the table was reset
// chat:        { from, text }
// music:       { payload }
// adminOK / adminFail: {}
// error:       { error }      // scoped to the offending request
