// Package types holds the JSON wire format shared by the websocket and
// HTTP transports.
//
// Client -> Server (websocket frames, or the body of POST /lobbies/{code}/commands)
//
//	{"type": "StartGame"}                        fresh decks, round 1, picks cleared
//	{"type": "DrawCard", "role": "sniper"}       "sniper" | "goalkeeper"
//	{"type": "NextRound"}                        ignored until both roles picked
//
// Server -> Client
//
//	{"type": "StateSnapshot", "version": 3, "state": {...}}
//	{"type": "Error", "error": "bad json"}
//
// state:
//
//	phase:       "not_started" | "in_progress" | "completed"
//	round:       1-based, 0 before the first StartGame
//	max_rounds:  number
//	sniper_pick: {"kind": "bonus" | "penalty" | "neutral", "text": "..."} | null
//	keeper_pick: same shape as sniper_pick
//	remaining:   {"sniper": n, "goalkeeper": n}
//	both_picked: bool
package types
